package article

import (
	"fmt"
	"strings"
	"testing"
)

func BenchmarkLines_DetailScreen(b *testing.B) {
	var comments strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&comments, `<div class="comment" data-id="%d" style="padding-left: %dpx;"><p class="byline"><strong>user%d</strong> 1 hour ago</p><div class="text"><p>Reply number %d with a <a href="https://example.com/%d">link</a>.</p></div></div>`, i, (i%5)*40, i, i, i)
	}
	markup := strings.Replace(detailScreen, `<section class="comments">`, `<section class="comments">`+comments.String(), 1)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Lines(markup, 72)
	}
}
