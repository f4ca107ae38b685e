package stripgen

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
)

var hashPlaceholder = regexp.MustCompile(`\[hash(?::(\d+))?\]`)

// interpolateName expands the output file name template.
//
// Supported placeholders: [name], [ext] and [hash] with an
// optional length, like [hash:8]. The hash is computed over content.
func interpolateName(template, name, ext string, content []byte) string {
	sum := sha256.Sum256(content)
	digest := hex.EncodeToString(sum[:])

	result := strings.NewReplacer("[name]", name, "[ext]", ext).Replace(template)
	return hashPlaceholder.ReplaceAllStringFunc(result, func(m string) string {
		groups := hashPlaceholder.FindStringSubmatch(m)
		if groups[1] == "" {
			return digest
		}
		n, err := strconv.Atoi(groups[1])
		if err != nil || n <= 0 || n > len(digest) {
			return digest
		}
		return digest[:n]
	})
}
