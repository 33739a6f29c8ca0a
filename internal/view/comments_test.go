package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glabrego/hnpwa-cli/internal/hnpwa"
)

func TestRenderComments_PreOrderWithLevelIndent(t *testing.T) {
	comments := []hnpwa.CommentNode{
		{ID: 1, User: "a", Content: "<p>first</p>", Level: 0, Comments: []hnpwa.CommentNode{
			{ID: 2, User: "b", Content: "<p>reply</p>", Level: 1, Comments: []hnpwa.CommentNode{
				{ID: 3, User: "c", Content: "deep", Level: 2},
			}},
		}},
		{ID: 4, User: "d", Content: "sibling", Level: 0},
	}

	got := RenderComments(comments, nil)
	blocks := strings.Split(strings.TrimSpace(got), "\n")
	assert.Len(t, blocks, 4)

	order := []string{`data-id="1"`, `data-id="2"`, `data-id="3"`, `data-id="4"`}
	indent := []string{"padding-left: 0px;", "padding-left: 40px;", "padding-left: 80px;", "padding-left: 0px;"}
	for i, block := range blocks {
		assert.Contains(t, block, order[i])
		assert.Contains(t, block, indent[i])
	}
}

func TestRenderComments_IndentFollowsReportedLevel(t *testing.T) {
	comments := []hnpwa.CommentNode{
		{ID: 1, Level: 3, Comments: []hnpwa.CommentNode{{ID: 2, Level: 5}}},
	}
	got := RenderComments(comments, nil)
	assert.Contains(t, got, `data-id="1" data-level="3" style="padding-left: 120px;"`)
	assert.Contains(t, got, `data-id="2" data-level="5" style="padding-left: 200px;"`)
}

func TestRenderComments_EmptyAndEscaping(t *testing.T) {
	assert.Equal(t, "", RenderComments(nil, nil))

	got := RenderComments([]hnpwa.CommentNode{{ID: 1, User: "<b>x</b>", TimeAgo: "1 hour ago"}}, nil)
	assert.Contains(t, got, "<strong>&lt;b&gt;x&lt;/b&gt;</strong> 1 hour ago")
}

func TestRenderComments_SanitizesContent(t *testing.T) {
	s := NewSanitizer()
	got := RenderComments([]hnpwa.CommentNode{{ID: 1, Content: `<p>hi</p><script>alert(1)</script>`}}, s.Sanitize)
	assert.Contains(t, got, "<p>hi</p>")
	assert.NotContains(t, got, "<script")
}

func TestCommentIndent(t *testing.T) {
	assert.Equal(t, 0, CommentIndent(0))
	assert.Equal(t, 40, CommentIndent(1))
	assert.Equal(t, 0, CommentIndent(-2))
}
