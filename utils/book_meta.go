package utils

import (
	"regexp"
	"strings"
	"time"

	"gin-inventory/models"

	"golang.org/x/text/width"
)

// Titles are width-folded first, so fullwidth digits and brackets match too.
var volumePatterns = []*regexp.Regexp{
	regexp.MustCompile(`第\s*([0-9]{1,3})\s*巻`),
	regexp.MustCompile(`([0-9]{1,3})\s*巻`),
	regexp.MustCompile(`\(\s*([0-9]{1,3})\s*\)`),
}

// ExtractVolume returns the volume number written in a title such as
// "ワンピース 第3巻", "進撃の巨人 12巻" or "ハイキュー!! (5)".
func ExtractVolume(title string) *string {
	title = width.Fold.String(title)
	for _, p := range volumePatterns {
		if m := p.FindStringSubmatch(title); m != nil {
			v := strings.TrimLeft(m[1], "0")
			if v == "" {
				v = "0"
			}
			return &v
		}
	}
	return nil
}

// ParsePublishedDate accepts "YYYY", "YYYY-MM" and "YYYY-MM-DD". Anything else
// yields 2000-01-01.
func ParsePublishedDate(s string) models.Date {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if len(s) != len(layout) {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return models.DateOf(t)
		}
	}
	return models.NewDate(2000, time.January, 1)
}
