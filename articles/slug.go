package articles

import (
	"math/rand"
	"strconv"

	"github.com/gosimple/slug"
)

// suffixSpace sizes the random slug suffix: six base-36 digits.
const suffixSpace = 36 * 36 * 36 * 36 * 36 * 36

// NewSlug derives a URL slug from a title and appends a random base-36
// suffix so that articles sharing a title get distinct slugs.
func NewSlug(title string) string {
	return slug.Make(title) + "-" + strconv.FormatInt(rand.Int63n(suffixSpace), 36)
}
