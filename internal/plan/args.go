package plan

import (
	"fmt"
	"strconv"

	"slimsamples/internal/sample"
)

// Args renders the sox argument list (without the binary) for p.
func Args(p Plan) []string {
	return ArgsTo(p, p.DestPath)
}

// ArgsTo renders the sox argument list writing to dest instead of p.DestPath.
func ArgsTo(p Plan, dest string) []string {
	args := make([]string, 0, len(p.Source)+len(p.Dest)+len(p.Post)*2+4)
	args = appendDirectives(args, p.Source)
	args = append(args, p.SourcePath)
	args = appendDirectives(args, p.Dest)
	args = append(args, dest)
	args = appendDirectives(args, p.Post)
	return args
}

func appendDirectives(args []string, directives []Directive) []string {
	for _, d := range directives {
		args = append(args, directiveArgs(d)...)
	}
	return args
}

func directiveArgs(d Directive) []string {
	switch v := d.(type) {
	case Normalize:
		return []string{"--norm=" + strconv.FormatFloat(-v.GuardDB, 'f', -1, 64)}
	case SetEncoding:
		switch v.Kind {
		case sample.FloatingPointPCM:
			return []string{"-e", "floating-point"}
		default:
			return []string{"-e", "signed-integer"}
		}
	case SetBitDepth:
		return []string{"-b", strconv.Itoa(v.Bits)}
	case DisableDither:
		return []string{"-D"}
	case SetSampleRate:
		return []string{"-r", strconv.Itoa(v.Rate)}
	case MixDownChannels:
		return []string{"channels", strconv.Itoa(v.To)}
	default:
		panic(fmt.Sprintf("plan: unknown directive %T", d))
	}
}
