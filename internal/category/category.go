// Package category maps free-text transaction descriptions onto the fixed
// spend categories with an ordered keyword table.
package category

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/expenselens/walletledger/internal/models"
)

// Rule pairs a category with the keywords that select it. Rules are
// evaluated in declaration order and the first keyword hit wins.
type Rule struct {
	Category models.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
}

// defaultRules is the built-in keyword table. Extend per merchant as they
// show up in statements; order matters only when keywords overlap.
var defaultRules = []Rule{
	{models.CategoryFood, []string{"mcdonald", "kfc", "dominos", "pizza", "restaurant", "tiffins", "dosa", "canteen", "burger", "hotel", "coffee", "cafe", "swiggy", "zomato"}},
	{models.CategoryEntertainment, []string{"phoenix", "pvr", "multiplex", "movie", "bookmyshow", "ticket", "netflix", "hotstar", "spotify"}},
	{models.CategoryGroceries, []string{"ratnadeep", "dmart", "supermarket", "grocery", "bigbazaar", "reliance", "kirana"}},
	{models.CategoryTransport, []string{"ola", "uber", "redbus", "bus", "taxi", "auto", "fuel", "petrol", "bharat", "hpcl"}},
	{models.CategoryBills, []string{"airtel", "recharge", "phonepe", "paytm", "electricity", "bsnl", "broadband", "utility", "electric"}},
	{models.CategoryShopping, []string{"amazon", "flipkart", "myntra", "snapdeal"}},
	{models.CategoryHealth, []string{"clinic", "pharmacy", "medic", "hospital", "apollo"}},
	{models.CategoryClothes, []string{"zudio", "max", "pantaloons", "trends", "westside", "lifestyle"}},
	{models.CategoryTravel, []string{"irctc", "makemytrip", "goibibo", "oyo", "indigo", "airlines", "airways"}},
}

var (
	// refundCues mark credits/incoming funds. Debit filtering happens
	// upstream; this is the safety net for text that slips through.
	refundCues = []string{"gift card", "giftcard", "cashback", "credited", "received"}

	// personNamePattern flags probable person-to-person transfers via
	// honorifics and common first-name tokens. It does not short-circuit
	// classification: a transfer description that happens to name a
	// merchant keyword still maps to that merchant.
	personNamePattern = regexp.MustCompile(`(?i)\b(mr|ms|mrs|sri|smt|kumar|reddy|sharma|venkata?|pavan|shaik)\b`)

	// paidToPersonPattern catches "paid to <short name>" descriptions that
	// matched no merchant keyword.
	paidToPersonPattern = regexp.MustCompile(`(?i)^paid to [A-Za-z\s]{2,20}$`)
)

// Classifier assigns categories by keyword lookup.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier using the built-in keyword table.
func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules}
}

// NewClassifierFromFile loads the keyword table from a YAML rules file,
// letting deployments extend the merchant lists without a rebuild.
func NewClassifierFromFile(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %q: %w", path, err)
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %q: %w", path, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("rules file %q contains no rules", path)
	}
	return &Classifier{rules: rules}, nil
}

// Classify maps a description to a category. Refund/credit cues return
// Others immediately; otherwise the first rule whose keyword appears wins;
// person-to-person transfers and everything unmatched fall to Others.
func (c *Classifier) Classify(text string) models.Category {
	lower := strings.ToLower(text)

	for _, cue := range refundCues {
		if strings.Contains(lower, cue) {
			return models.CategoryOthers
		}
	}

	// The person-name signal (IsPersonName) never short-circuits this
	// keyword pass: a transfer description naming a merchant still maps to
	// that merchant.
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}

	// "paid to <short name>" with no merchant keyword is a person
	// transfer. Today it lands in the same bucket as the default; the
	// branch stays explicit so transfers can get their own bucket later.
	if paidToPersonPattern.MatchString(strings.TrimSpace(text)) {
		return models.CategoryOthers
	}
	return models.CategoryOthers
}

// IsPersonName reports whether the text carries an honorific or common
// first-name token suggesting a peer-to-peer transfer.
func IsPersonName(text string) bool {
	return personNamePattern.MatchString(strings.ToLower(text))
}
