package vanitygen

// Options are the per-call switches understood by the tool. Only the fields
// below exist, so an unknown option cannot be expressed.
type Options struct {
	Simulate        bool   // -n: estimate difficulty / validate, generate nothing
	Continuous      bool   // -k: keep searching after the first match
	CaseInsensitive bool   // -i
	PatternsFile    string // -f: read patterns from this file instead of the command line
	OutputFile      string // -o: write results here (the side-channel pipe in continuous mode)
}
