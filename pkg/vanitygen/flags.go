package vanitygen

// BuildFlags turns a pattern set, options and network into the tool's
// argument list. The order is fixed: -r, network selector, -n, -k, -i,
// -f <file>, -o <file>, then the inline patterns unless -f was given.
func BuildFlags(patterns []Pattern, opt Options, net Network) ([]string, error) {
	regex, err := checkPatternSet(patterns)
	if err != nil {
		return nil, err
	}
	if !net.Valid() {
		return nil, ErrUnknownNetwork
	}

	var flags []string
	if regex {
		flags = append(flags, "-r")
	}
	if f := net.Flag(); f != "" {
		flags = append(flags, f)
	}
	if opt.Simulate {
		flags = append(flags, "-n")
	}
	if opt.Continuous {
		flags = append(flags, "-k")
	}
	if opt.CaseInsensitive {
		flags = append(flags, "-i")
	}
	if opt.PatternsFile != "" {
		flags = append(flags, "-f", opt.PatternsFile)
	}
	if opt.OutputFile != "" {
		flags = append(flags, "-o", opt.OutputFile)
	}
	if opt.PatternsFile == "" {
		for _, p := range patterns {
			flags = append(flags, p.Source())
		}
	}
	return flags, nil
}
