package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"asset-lending/internal/models"

	"gorm.io/gorm"
)

// SerialPrefix derives the serial prefix for an asset:
//   - asset: first word of the name
//   - room: whole name with spaces replaced by dashes
//   - anything else: the type with its first letter capitalized
func SerialPrefix(name string, typ models.AssetType) string {
	name = strings.TrimSpace(name)

	switch typ {
	case models.AssetTypeAsset:
		if fields := strings.Fields(name); len(fields) > 0 {
			return fields[0]
		}
		return name
	case models.AssetTypeRoom:
		return strings.ReplaceAll(name, " ", "-")
	default:
		return upperFirst(string(typ))
	}
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FormatSerial renders "<prefix>-<NNN>"; values above 999 keep all digits.
func FormatSerial(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

// Sequence hands out the next serial value for a prefix. Next runs on the
// transaction that will insert the asset.
type Sequence interface {
	Next(tx *gorm.DB, prefix string) (int, error)
}

// SuffixSequence continues after the highest numeric suffix already stored
// for the prefix. Serials of other prefixes that merely share the leading
// text ("Laptop-Dell-001" vs prefix "Laptop") are ignored.
type SuffixSequence struct{}

func (SuffixSequence) Next(tx *gorm.DB, prefix string) (int, error) {
	var serials []string
	if err := tx.Model(&models.Asset{}).
		Where("serial_number LIKE ?", prefix+"-%").
		Pluck("serial_number", &serials).Error; err != nil {
		return 0, err
	}

	max := 0
	for _, s := range serials {
		n, ok := serialSuffix(s, prefix)
		if ok && n > max {
			max = n
		}
	}
	return max + 1, nil
}

func serialSuffix(serial, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(serial, prefix+"-")
	if !ok || rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// prefixLocks serializes serial allocation per prefix inside one process.
// The unique index on serial_number covers multiple processes.
type prefixLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *prefixLocks) Lock(prefix string) (unlock func()) {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	l, ok := p.locks[prefix]
	if !ok {
		l = &sync.Mutex{}
		p.locks[prefix] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
