package parse

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineages_RoundTrip(t *testing.T) {
	want := []Lineage{
		{Name: "Stoicism", Summary: "Focus on what you control."},
		{Name: "Buddhism", Summary: "Observe attachment to outcomes."},
		{Name: "Sufism", Summary: "Meet the feeling with devotion and poetry."},
	}

	var sb strings.Builder
	for _, l := range want {
		fmt.Fprintf(&sb, "**%s**: %s\n", l.Name, l.Summary)
	}

	got := Lineages(sb.String())
	require.Equal(t, want, got, "documented format must round-trip exactly")
}

func TestLineages_EmptyAndGarbage(t *testing.T) {
	assert.Empty(t, Lineages(""))
	assert.Empty(t, Lineages("I could not think of any paths today.\nSorry about that."))
	assert.Empty(t, Lineages("Headings without colons: **Stoicism** and **Buddhism**\n"))
}

func TestLineages_IgnoresNonMatchingLines(t *testing.T) {
	text := "Here are some paths that may help:\n\n" +
		"**Stoicism**: Focus on what you control.\n" +
		"(these are only starting points)\n" +
		"**Buddhism**: Observe attachment to outcomes.\n"

	got := Lineages(text)
	require.Len(t, got, 2)
	assert.Equal(t, "Stoicism", got[0].Name)
	assert.Equal(t, "Buddhism", got[1].Name)
}

func TestLineages_DuplicateNameOverwrites(t *testing.T) {
	text := "**Zen**: First summary.\n" +
		"**Taoism**: Flow with what is.\n" +
		"**Zen**: Second summary.\n"

	got := Lineages(text)
	require.Len(t, got, 2)
	assert.Equal(t, Lineage{Name: "Zen", Summary: "Second summary."}, got[0], "later duplicate overwrites but keeps position")
	assert.Equal(t, "Taoism", got[1].Name)
}

func TestLineages_WhitespaceAroundColon(t *testing.T) {
	got := Lineages("**Vedanta**  :   You are not the wave but the ocean.")
	require.Len(t, got, 1)
	assert.Equal(t, "Vedanta", got[0].Name)
	assert.Equal(t, "You are not the wave but the ocean.", got[0].Summary)
}

const wellFormedDiscover = `Some nourishment for the road ahead.

### Books
- "Meditations" by Marcus Aurelius: a field manual for the mind.
- "The Obstacle Is the Way": modern stoic practice.

### Places
- The cloister garden of Le Thoronet: silence built in stone.

### Music
- Arvo Part, "Spiegel im Spiegel": stillness in two voices.`

func TestDiscoverMore_WellFormed(t *testing.T) {
	got := DiscoverMore(wellFormedDiscover)

	assert.Contains(t, got.Books, "Marcus Aurelius")
	assert.Contains(t, got.Books, "The Obstacle Is the Way")
	assert.NotContains(t, got.Books, "cloister")
	assert.Contains(t, got.Places, "Le Thoronet")
	assert.Contains(t, got.Music, "Spiegel im Spiegel")
}

func TestDiscoverMore_MissingPlaces(t *testing.T) {
	text := `### Books
- "When Things Fall Apart" by Pema Chodron.

### Music
- Hildegard von Bingen, "O vis aeternitatis".`

	got := DiscoverMore(text)
	assert.Contains(t, got.Books, "Pema Chodron")
	assert.Equal(t, NoRecommendations, got.Places)
	assert.Contains(t, got.Music, "Hildegard")
}

func TestDiscoverMore_KeywordsInProseDoNotSplit(t *testing.T) {
	text := `### Books
These books mention music and places constantly, which is fine.

### Places
Visit the music school garden at dawn.

### Music
Anything with slow strings.`

	got := DiscoverMore(text)
	assert.Contains(t, got.Books, "mention music and places")
	assert.Contains(t, got.Places, "music school garden")
	assert.Equal(t, "Anything with slow strings.", got.Music)
}

func TestDiscoverMore_HeadingVariants(t *testing.T) {
	text := "  ## Books  \nA book.\n**Places**\nA place.\nMusic:\nA song.\n"

	got := DiscoverMore(text)
	assert.Equal(t, "A book.", got.Books)
	assert.Equal(t, "A place.", got.Places)
	assert.Equal(t, "A song.", got.Music)
}

func TestDiscoverMore_EmptyInput(t *testing.T) {
	got := DiscoverMore("")
	assert.Equal(t, Discoveries{
		Books:  NoRecommendations,
		Places: NoRecommendations,
		Music:  NoRecommendations,
	}, got)
}

func TestDiscoverMore_EmptySectionGetsPlaceholder(t *testing.T) {
	text := "### Books\n\n### Places\nSomewhere quiet.\n\n### Music\nSomething slow."

	got := DiscoverMore(text)
	assert.Equal(t, NoRecommendations, got.Books)
	assert.Equal(t, "Somewhere quiet.", got.Places)
}

func TestGuideName(t *testing.T) {
	assert.Equal(t, "Thich Nhat Hanh", GuideName("  Thich Nhat Hanh\n"))
	assert.Equal(t, "", GuideName("   \n\t"))
	// No validation beyond trimming: a verbose reply is accepted as-is.
	verbose := GuideName("A fine choice would be Rumi, the Persian poet.")
	assert.Equal(t, "A fine choice would be Rumi, the Persian poet.", verbose)
}
