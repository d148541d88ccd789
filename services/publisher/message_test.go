package publisher

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"discountfinder/internal/product"
)

func testProduct() product.Product {
	return product.Product{
		ASIN:            "B000000001",
		Title:           "コーヒーメーカー 全自動 ミル付き",
		URL:             "https://www.amazon.co.jp/dp/B000000001?tag=tag-22",
		CurrentPrice:    7980,
		OriginalPrice:   12800,
		DiscountAmount:  4820,
		DiscountPercent: 37.7,
	}
}

func TestBuildText(t *testing.T) {
	text := BuildText(testProduct())

	assert.Contains(t, text, "37.7%オフ")
	assert.Contains(t, text, "コーヒーメーカー 全自動 ミル付き")
	assert.Contains(t, text, "現在価格: 7,980円")
	assert.Contains(t, text, "元の価格: 12,800円")
	assert.Contains(t, text, "割引額: 4,820円")
	assert.Contains(t, text, "https://www.amazon.co.jp/dp/B000000001?tag=tag-22")
	assert.Contains(t, text, "#Amazonセール")
}

func TestFitToLimitNoop(t *testing.T) {
	text := "short post"
	assert.Equal(t, text, FitToLimit(text, "short", StatusLimit))
}

func TestFitToLimitShortensTitle(t *testing.T) {
	p := testProduct()
	p.Title = strings.Repeat("ロングタイトル", 40)
	text := BuildText(p)
	assert.Greater(t, utf8.RuneCountInString(text), StatusLimit)

	fitted := FitToLimit(text, p.Title, StatusLimit)
	assert.LessOrEqual(t, utf8.RuneCountInString(fitted), StatusLimit)
	assert.Contains(t, fitted, "...")

	// Prices and URL survive the shortening
	assert.Contains(t, fitted, "7,980円")
	assert.Contains(t, fitted, p.URL)
}

func TestFitToLimitWithoutTitle(t *testing.T) {
	text := strings.Repeat("あ", 400)
	fitted := FitToLimit(text, "", StatusLimit)
	assert.LessOrEqual(t, utf8.RuneCountInString(fitted), StatusLimit)
}

func TestFitToLimitTitleTooShort(t *testing.T) {
	// The title cannot absorb the overflow, so the text is truncated
	text := strings.Repeat("あ", 400) + "短い"
	fitted := FitToLimit(text, "短い", StatusLimit)
	assert.LessOrEqual(t, utf8.RuneCountInString(fitted), StatusLimit)
}
