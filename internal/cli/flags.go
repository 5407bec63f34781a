package cli

import "ptb/internal/config"

// Flags holds command-line flags
type Flags struct {
	Workers    int
	TestPath   string
	NameFilter string
	Listen     string
	Quiet      bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Workers:    f.Workers,
		TestPath:   f.TestPath,
		NameFilter: f.NameFilter,
		Listen:     f.Listen,
		Quiet:      f.Quiet,
	}
}
