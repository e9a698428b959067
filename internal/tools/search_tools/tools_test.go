package search_tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/deskhand/internal/logging"
	"github.com/teemow/deskhand/internal/tools/common"
	"github.com/teemow/deskhand/internal/wikipedia"
)

type fakeEncyclopedia struct {
	queries []string
	summary string
	err     error
}

func (f *fakeEncyclopedia) Summary(_ context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.summary, f.err
}

func search(enc Encyclopedia) common.StringTool {
	return Tools(Deps{Encyclopedia: enc, Logger: logging.Discard()})[0]
}

func TestWikipediaSearch(t *testing.T) {
	enc := &fakeEncyclopedia{summary: "Alan Mathison Turing was an English mathematician."}

	got := search(enc).Invoke(context.Background(), "  Alan Turing ")

	assert.Equal(t, "Alan Mathison Turing was an English mathematician.", got)
	assert.Equal(t, []string{"Alan Turing"}, enc.queries)
}

func TestWikipediaSearch_Ambiguous(t *testing.T) {
	enc := &fakeEncyclopedia{err: &wikipedia.DisambiguationError{
		Title:   "Mercury",
		Options: []string{"Mercury (planet)", "Mercury (element)", "Mercury (mythology)", "Freddie Mercury"},
	}}

	res := search(enc).Run(context.Background(), "Mercury")

	assert.False(t, res.Failed())
	assert.Equal(t, "The query is ambiguous. Some possible options are: Mercury (planet), Mercury (element), Mercury (mythology)", res.String())
}

func TestWikipediaSearch_NotFound(t *testing.T) {
	got := search(&fakeEncyclopedia{err: wikipedia.ErrPageNotFound}).Invoke(context.Background(), "qwxzzy")
	assert.Equal(t, "No Wikipedia page was found for this term.", got)
}

func TestWikipediaSearch_UnexpectedError(t *testing.T) {
	res := search(&fakeEncyclopedia{err: errors.New("wikipedia returned 503")}).Run(context.Background(), "Go")

	assert.True(t, res.Failed())
	assert.Equal(t, common.KindExternalCall, res.Kind())
	assert.Equal(t, "❌ An unexpected error occurred: wikipedia returned 503", res.String())
}

func TestWikipediaSearch_EmptyMakesNoCall(t *testing.T) {
	enc := &fakeEncyclopedia{}
	res := search(enc).Run(context.Background(), "  ")

	assert.Equal(t, common.KindParse, res.Kind())
	assert.Empty(t, enc.queries)
}
