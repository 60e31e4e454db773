// Package cli provides the pieces shared by the opusstream command line:
// profile configuration, output formatting and terminal styles.
//
// Profiles are stored in ~/.opusstream/config.yaml, one named set of stream
// settings per profile, with a current profile used when none is given:
//
//	cfg, err := cli.LoadConfig("")
//	p, err := cfg.ResolveProfile(name)
//
//	cli.Output(result, cli.OutputOptions{Format: cli.FormatJSON})
package cli
