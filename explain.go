package nanofuzz

import (
	"fmt"
	"io"

	"github.com/nanofuzz/nanofuzz/internal/linker"
	"github.com/nanofuzz/nanofuzz/internal/pattern"
)

// explainFactory renders one factory's block program as an indented,
// numbered step list, then recurses into every sub-factory the program
// references, each under its own heading. visited guards against
// re-describing (or infinitely recursing through) a sub-factory reachable
// by more than one path — references can form a diamond, though never a
// cycle a well-linked factory would ever reach at generation time.
func explainFactory(w io.Writer, name string, f *linker.Factory, visited map[string]bool) error {
	if name != "" {
		if visited[name] {
			return nil
		}
		visited[name] = true
		if _, err := fmt.Fprintf(w, "\nsub-factory %s (max %d bytes):\n", name, f.MaxOutputSize); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "factory (max %d bytes):\n", f.MaxOutputSize); err != nil {
			return err
		}
	}

	var refs []string
	for i, b := range f.Blocks {
		line, ref := explainBlock(b)
		if line != "" {
			if _, err := fmt.Fprintf(w, "  %3d  %s\n", i, line); err != nil {
				return err
			}
		}
		if ref != "" {
			refs = append(refs, ref)
		}
	}

	for _, refName := range refs {
		sub, ok := f.SubFactories[refName]
		if !ok {
			continue
		}
		if err := explainFactory(w, refName, sub, visited); err != nil {
			return err
		}
	}
	return nil
}

// explainBlock renders one block as a single diagnostic line, plus the
// name of any sub-factory it references (so the caller can recurse into it
// once, after finishing the current factory's own step list).
func explainBlock(b pattern.Block) (line string, ref string) {
	rep := explainRep(b.Rep)
	switch b.Kind {
	case pattern.KindString:
		return fmt.Sprintf("literal %q%s", b.Data, rep), ""
	case pattern.KindRange:
		return fmt.Sprintf("range %s (%d values)%s", explainRanges(b.Set), b.Set.Width(), rep), ""
	case pattern.KindSub:
		return fmt.Sprintf("subsequence open (nest %d)%s", b.Nest, rep), ""
	case pattern.KindRet:
		return fmt.Sprintf("subsequence close (loops back %d)", b.BackOffset), ""
	case pattern.KindBranchRoot:
		return fmt.Sprintf("alternation over %d arms", len(b.Steps)), ""
	case pattern.KindBranchJmp:
		return fmt.Sprintf("alternation arm end (skip forward %d)", b.ForwardOffset), ""
	case pattern.KindReference:
		return explainReference(b.Ref, rep), b.Ref.Name
	case pattern.KindEnd:
		return "", ""
	default:
		return fmt.Sprintf("unknown block kind %v", b.Kind), ""
	}
}

func explainReference(ref pattern.Reference, rep string) string {
	switch ref.Kind {
	case pattern.RefPaste:
		return fmt.Sprintf("paste <@%s>%s", ref.Name, rep)
	case pattern.RefShuffle:
		return fmt.Sprintf("reshuffle <%%%s>", ref.Name)
	case pattern.RefLength:
		return fmt.Sprintf("length <#%c%d+%d:%s>%s",
			byte(ref.LenOpts.Format), ref.LenOpts.Width, ref.LenOpts.Add, ref.Name, rep)
	default:
		return fmt.Sprintf("reference %s (unknown kind)", ref.Name)
	}
}

func explainRep(rep pattern.Repetition) string {
	if rep.Single && rep.Base == 1 {
		return ""
	}
	if rep.Single {
		return fmt.Sprintf(" {%d}", rep.Base)
	}
	return fmt.Sprintf(" {%d,%d}", rep.Base, rep.High)
}

func explainRanges(set pattern.RangeSet) string {
	s := "["
	for i, r := range set.Ranges() {
		if i > 0 {
			s += ","
		}
		if r.Lo == r.Hi {
			s += fmt.Sprintf("%02x", r.Lo)
		} else {
			s += fmt.Sprintf("%02x-%02x", r.Lo, r.Hi)
		}
	}
	return s + "]"
}
