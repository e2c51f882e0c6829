package hashtag

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	got := Extract("#A #A #B #c1 not-a-tag @x")
	assert.Equal(t, []string{"A", "B", "c1"}, got)
}

func TestExtractEmpty(t *testing.T) {
	assert.Nil(t, Extract("no hashtags here"))
	assert.Nil(t, Extract(""))
}

func TestExtractDedupIsCaseInsensitive(t *testing.T) {
	got := Extract("#Go #go #GO")
	assert.Equal(t, []string{"Go"}, got)
}

func TestExtractKeepsFirstSeenOrder(t *testing.T) {
	got := Extract("tail #zulu middle #alpha head #zulu")
	assert.Equal(t, []string{"zulu", "alpha"}, got)
}

func TestExtractCJK(t *testing.T) {
	got := Extract("今日の #日本語 と #テスト")
	assert.Equal(t, []string{"日本語", "テスト"}, got)
}

func TestExtractCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < MaxTags+5; i++ {
		fmt.Fprintf(&sb, "#tag%d ", i)
	}
	got := Extract(sb.String())
	assert.Len(t, got, MaxTags)
	assert.Equal(t, "tag0", got[0])
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "golang", Slugify("GoLang"))
	assert.Equal(t, "hello-world", Slugify("Hello World"))
	assert.Equal(t, "c1", Slugify("c1"))
	assert.Equal(t, "日本語", Slugify("日本語"))
	assert.Equal(t, "", Slugify("!!!"))
}
