package textscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashtags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"ocean"}, Hashtags("Hello #Ocean and #ocean!"))
	assert.Equal(t, []string{"sunny"}, Hashtags("Great day! #sunny @bob"))
	assert.Equal(t, []string{"a", "b"}, Hashtags("#a #b #a"))
	assert.Empty(t, Hashtags(""))
	assert.Empty(t, Hashtags("no tags here"))
}

func TestHashtagsStopAtPunctuation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"go_lang2"}, Hashtags("love #go_lang2, always"))
	assert.Equal(t, []string{"x"}, Hashtags("#x#X"))
}

func TestMentions(t *testing.T) {
	t.Parallel()

	// Case preserved as written, deduped case-insensitively.
	assert.Equal(t, []string{"Agent1"}, Mentions("ping @Agent1 and @agent1"))
	assert.Equal(t, []string{"bob"}, Mentions("Great day! #sunny @bob"))
	assert.Equal(t, []string{"alice", "bob"}, Mentions("@alice @bob @alice"))
	assert.Empty(t, Mentions(""))
	assert.Empty(t, Mentions("nothing to see"))
}
