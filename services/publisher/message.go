package publisher

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"discountfinder/helpers"
	"discountfinder/internal/product"
)

// BuildText renders the post body for a discounted product
func BuildText(p product.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔥【%.1f%%オフ】Amazon割引情報🔥\n\n", p.DiscountPercent)
	fmt.Fprintf(&b, "%s\n\n", p.Title)
	fmt.Fprintf(&b, "✅ 現在価格: %s円\n", helpers.FormatPrice(p.CurrentPrice))
	fmt.Fprintf(&b, "❌ 元の価格: %s円\n", helpers.FormatPrice(p.OriginalPrice))
	fmt.Fprintf(&b, "💰 割引額: %s円\n\n", helpers.FormatPrice(p.DiscountAmount))
	fmt.Fprintf(&b, "🛒 商品ページ: %s\n\n", p.URL)
	b.WriteString("#Amazonセール #お買い得 #タイムセール")
	return b.String()
}

// FitToLimit shortens the title portion of text so the whole post fits the
// platform limit, leaving a small margin for the ellipsis. When the title
// cannot absorb the overflow the whole text is truncated instead.
func FitToLimit(text, title string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	overflow := utf8.RuneCountInString(text) - (limit - 10)
	keep := utf8.RuneCountInString(title) - overflow
	if title == "" || keep < 1 {
		return helpers.TruncateRunes(text, limit)
	}

	shortTitle := string([]rune(title)[:keep]) + "..."
	fitted := strings.Replace(text, title, shortTitle, 1)
	if utf8.RuneCountInString(fitted) > limit {
		return helpers.TruncateRunes(fitted, limit)
	}
	return fitted
}
