// Package record parses the labeled result triples vanitygen prints:
//
//	Pattern: 1A
//	Address: 1AbcD...
//	Privkey: 5Jxyz...
//
// Each label may be preceded by arbitrary text; the value is the last
// whitespace-separated token of the line.
package record

import (
	"strings"
)

// Record is one match reported by the external tool.
type Record struct {
	Pattern    string `json:"pattern"`
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
}

type label int

const (
	labelNone label = iota
	labelPattern
	labelAddress
	labelPrivkey
)

// split returns the line's label, looked up only in the text before the
// value so a value can never be mistaken for a label, and the value itself.
func split(line string) (label, string) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return labelNone, ""
	}
	head := strings.Join(fields[:len(fields)-1], " ")
	v := fields[len(fields)-1]
	switch {
	case strings.Contains(head, "Pattern"):
		return labelPattern, v
	case strings.Contains(head, "Address"):
		return labelAddress, v
	case strings.Contains(head, "Privkey"):
		return labelPrivkey, v
	default:
		return labelNone, ""
	}
}

// Parse extracts every complete triple found in text. It keeps no state
// between calls: a triple split across two calls is lost. Use Decoder for
// streams.
func Parse(text string) []Record {
	var d Decoder
	return d.feedLines(strings.Split(text, "\n"))
}

// Decoder parses a stream that arrives in arbitrary chunks. It holds back
// the trailing partial line and a half-read triple until the rest arrives.
type Decoder struct {
	partial string
	pending Record
	next    label
}

// Write consumes a chunk and returns the records it completed, in order.
func (d *Decoder) Write(chunk []byte) []Record {
	text := d.partial + string(chunk)
	cut := strings.LastIndexByte(text, '\n')
	if cut < 0 {
		d.partial = text
		return nil
	}
	d.partial = text[cut+1:]
	return d.feedLines(strings.Split(text[:cut], "\n"))
}

// Flush parses whatever is left as if a final newline had arrived.
func (d *Decoder) Flush() []Record {
	if d.partial == "" {
		return nil
	}
	rest := d.partial
	d.partial = ""
	return d.feedLines([]string{rest})
}

// Reset drops buffered text and any half-read triple.
func (d *Decoder) Reset() {
	*d = Decoder{}
}

func (d *Decoder) feedLines(lines []string) []Record {
	var out []Record
	for _, line := range lines {
		l, v := split(line)
		if l == labelNone {
			continue
		}
		switch {
		case l == labelPattern:
			d.pending = Record{Pattern: v}
			d.next = labelAddress
		case l == labelAddress && d.next == labelAddress:
			d.pending.Address = v
			d.next = labelPrivkey
		case l == labelPrivkey && d.next == labelPrivkey:
			d.pending.PrivateKey = v
			out = append(out, d.pending)
			d.pending = Record{}
			d.next = labelNone
		default:
			// out-of-order label breaks the triple
			d.pending = Record{}
			d.next = labelNone
		}
	}
	return out
}
