package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nanofuzz/nanofuzz/internal/linker"
	"github.com/nanofuzz/nanofuzz/internal/parser"
	"github.com/nanofuzz/nanofuzz/internal/prng"
	"github.com/nanofuzz/nanofuzz/limits"
)

func mustFactory(t *testing.T, src string) *linker.Factory {
	t.Helper()
	res, ptrace, ok := parser.Parse(src)
	require.True(t, ok, "parse(%q): %s", src, ptrace.Error())
	f, ltrace, ok := linker.Link(res)
	require.True(t, ok, "link(%q): %s", src, ltrace.Error())
	return f
}

func newContext(t *testing.T, src string, seed uint64) *Context {
	t.Helper()
	return New(mustFactory(t, src), prng.New(seed), limits.Normal)
}

func TestGenerate_PlainLiteralIsVerbatim(t *testing.T) {
	ctx := newContext(t, "aaaaa", 0xDEADBEEF)
	out, err := ctx.Generate()
	require.NoError(t, err)
	require.Equal(t, "aaaaa", string(out))
}

func TestGenerate_FixedRepetitionConcatenates(t *testing.T) {
	ctx := newContext(t, "a{3}b{2}", 0xDEADBEEF)
	out, err := ctx.Generate()
	require.NoError(t, err)
	require.Equal(t, "aaabb", string(out))
}

func TestGenerate_RangeRepetitionStaysInBoundsAndSet(t *testing.T) {
	ctx := newContext(t, "[A-Z]{4}", 1)
	for i := 0; i < 200; i++ {
		out, err := ctx.Generate()
		require.NoError(t, err)
		require.Len(t, out, 4)
		for _, b := range out {
			require.GreaterOrEqual(t, b, byte('A'))
			require.LessOrEqual(t, b, byte('Z'))
		}
	}
}

func TestGenerate_NegatedRangeExcludesSet(t *testing.T) {
	ctx := newContext(t, "[^a-z]{50}", 2)
	out, err := ctx.Generate()
	require.NoError(t, err)
	for _, b := range out {
		require.False(t, b >= 'a' && b <= 'z')
	}
}

func TestGenerate_AlternationPicksExactlyOneArmEachTime(t *testing.T) {
	ctx := newContext(t, "(ab|cd)", 3)
	seenAB, seenCD := false, false
	for i := 0; i < 1000; i++ {
		out, err := ctx.Generate()
		require.NoError(t, err)
		switch string(out) {
		case "ab":
			seenAB = true
		case "cd":
			seenCD = true
		default:
			t.Fatalf("unexpected alternation output %q", out)
		}
	}
	require.True(t, seenAB, "expected at least one 'ab' over 1000 trials")
	require.True(t, seenCD, "expected at least one 'cd' over 1000 trials")
}

func TestGenerate_NullifiedSubsequenceEmitsNothing(t *testing.T) {
	ctx := newContext(t, "x(abc|def){0}y", 4)
	out, err := ctx.Generate()
	require.NoError(t, err)
	require.Equal(t, "xy", string(out))
}

func TestGenerate_PasteReferenceRepeatsDeclaredFactory(t *testing.T) {
	ctx := newContext(t, "(AB){3}<$X>-<@X><@X>", 5)
	out, err := ctx.Generate()
	require.NoError(t, err)
	require.Equal(t, "ABABAB-ABABABABABAB", string(out))
}

func TestGenerate_LengthReferenceReportsFixedWidthDecimal(t *testing.T) {
	ctx := newContext(t, `([0-9]{3})<$L>-<#d4+0:L>:<@L>`, 6)
	out, err := ctx.Generate()
	require.NoError(t, err)
	s := string(out)
	require.Regexp(t, `^[0-9]{3}-0003:[0-9]{3}$`, s)
	require.Equal(t, s[:3], s[len(s)-3:], "the declaration's implicit paste and the explicit <@L> must read the same cached value")
}

func TestGenerate_ShuffleChangesReferencePayloadAcrossUses(t *testing.T) {
	// The declaration's implicit paste caches the first 20-digit draw;
	// <%L> discards it and regenerates before the trailing <@L> reads it.
	ctx := newContext(t, `([0-9]{20})<$L><%L><@L>`, 7)
	out, err := ctx.Generate()
	require.NoError(t, err)
	require.Len(t, out, 40)
	require.NotEqual(t, string(out[:20]), string(out[20:]), "reshuffle should usually change the 20-digit payload")
}

func TestGenerate_DeterministicUnderFixedSeed(t *testing.T) {
	const src = "(ab|cd){1,5}[0-9A-F]{8}"
	a := newContext(t, src, 0xDEADBEEF)
	b := newContext(t, src, 0xDEADBEEF)
	for i := 0; i < 50; i++ {
		outA, err := a.Generate()
		require.NoError(t, err)
		outB, err := b.Generate()
		require.NoError(t, err)
		require.Equal(t, string(outA), string(outB))
	}
}

func TestGenerate_OverflowResetsStateAndIsRetryable(t *testing.T) {
	f := mustFactory(t, "a{500}")
	ctx := New(f, prng.New(8), limits.Tiny)
	ctx.maxOut = 10 // force an artificially tiny bound to exercise overflow

	_, err := ctx.Generate()
	require.Error(t, err)
	require.Empty(t, ctx.buf)
	require.Empty(t, ctx.frames)

	ctx.maxOut = 1000
	out, err := ctx.Generate()
	require.NoError(t, err)
	require.Len(t, out, 500)
}

func TestGenerate_ReferenceToUnresolvedSubFactoryFails(t *testing.T) {
	f := mustFactory(t, "(a)<$L><@L>")
	delete(f.SubFactories, "L")
	ctx := New(f, prng.New(9), limits.Normal)
	_, err := ctx.Generate()
	require.Error(t, err)
}

func TestClose_TearsDownNestedReferenceContexts(t *testing.T) {
	ctx := newContext(t, "(a)<$L><@L>", 10)
	_, err := ctx.Generate()
	require.NoError(t, err)
	ctx.Close() // must not panic; nested context's Close runs too
}
