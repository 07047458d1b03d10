package extraction

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// yearsPattern finds statements such as "5 years", "7+ yrs of experience", "3 year exp".
	yearsPattern = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)?`)

	// leadingYearsPattern reads the years value back out of an experience keyword.
	leadingYearsPattern = regexp.MustCompile(`(\d+)\+?\s*years?`)
)

// MaxYears returns the largest "N years" value stated in lowercase text.
func MaxYears(lower string) (int, bool) {
	best, found := 0, false
	for _, m := range yearsPattern.FindAllStringSubmatch(lower, -1) {
		n := parseYears(m[1])
		if !found || n > best {
			best, found = n, true
		}
	}
	return best, found
}

// YearsMarker formats the synthesized experience keyword for n years.
func YearsMarker(n int) string {
	return fmt.Sprintf("%d+ years", n)
}

// LeadingYears returns the years value of the first keyword that states one.
func LeadingYears(keywords []string) (int, bool) {
	for _, keyword := range keywords {
		m := leadingYearsPattern.FindStringSubmatch(strings.ToLower(keyword))
		if m == nil {
			continue
		}
		return parseYears(m[1]), true
	}
	return 0, false
}

// parseYears converts a run of ASCII digits, saturating at math.MaxInt.
func parseYears(digits string) int {
	n, err := strconv.Atoi(digits)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt
	}
	return n
}
