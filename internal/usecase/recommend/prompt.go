package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mirae-commerce/shopdex/internal/domain"
)

// systemPrompt is the fixed assistant persona.
const systemPrompt = `You are a friendly e-commerce product recommendation assistant.
Based on the retrieved product information, recommend and describe the product naturally and helpfully.
Cover its features, strengths, and the situations it suits, but keep a conversational tone.
Always mention the price and the brand.`

const missingValue = "N/A"

// GroundingContext renders a product into the fixed-shape context block that
// grounds the generation step. Every field renders an explicit placeholder
// when missing so the block shape never varies.
func GroundingContext(p domain.ProductRecord) string {
	var b strings.Builder
	b.WriteString("[Recommended product]\n")
	fmt.Fprintf(&b, "- Name: %s\n", orMissing(p.Name))
	fmt.Fprintf(&b, "- Brand: %s\n", orMissing(p.Brand))
	fmt.Fprintf(&b, "- Price: %s\n", formatPrice(p.Price))
	fmt.Fprintf(&b, "- Description: %s\n", orMissing(p.Description))
	fmt.Fprintf(&b, "- Image caption: %s\n", orMissing(p.ImageCaption))
	fmt.Fprintf(&b, "- Image description: %s\n", orMissing(p.ImageDescription))
	fmt.Fprintf(&b, "- Tags: %s\n", formatTags(p.ImageTags))
	fmt.Fprintf(&b, "- Relevance score: %s\n", formatScore(p.Score))
	return b.String()
}

func orMissing(s string) string {
	if s == "" {
		return missingValue
	}
	return s
}

// formatPrice renders a thousands-grouped amount, or a fixed sentinel when
// the catalog has no price for the product.
func formatPrice(price *int) string {
	if price == nil {
		return "no price information"
	}
	return groupDigits(*price) + " won"
}

// groupDigits inserts commas every three digits.
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return missingValue
	}
	return strings.Join(tags, ", ")
}

func formatScore(score *float64) string {
	if score == nil {
		return missingValue
	}
	return fmt.Sprintf("%.4f", *score)
}
