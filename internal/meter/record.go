package meter

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Sentinel marks a field the OCR service did not return.
const Sentinel = "X"

var fieldKeys = [...]string{"v1", "v2", "v3", "v4", "v5", "v6", "v7"}

// FieldKeys returns the canonical position order of a meter reading.
func FieldKeys() []string {
	keys := fieldKeys
	return keys[:]
}

// FieldMap holds recognized text keyed by field identifier.
type FieldMap map[string]string

// Record is a normalized 7-position meter reading.
type Record struct {
	Values  [len(fieldKeys)]string
	Missing []string
}

// Joined returns the values separated by single spaces.
func (r Record) Joined() string {
	return strings.Join(r.Values[:], " ")
}

// Normalize resolves every canonical field of fields into a Record.
// Absent or empty fields become Sentinel and are listed in Missing.
// Each missing field is reported on log when it is non-nil.
func Normalize(log logrus.FieldLogger, fields FieldMap) Record {
	rec := Record{Missing: []string{}}
	for i, key := range fieldKeys {
		value := fields[key]
		if value == "" {
			value = Sentinel
		}
		rec.Values[i] = value
		if value != Sentinel {
			continue
		}
		label := Label(i)
		rec.Missing = append(rec.Missing, label)
		if log != nil {
			log.WithField("field", label).Error("cannot find value for field")
		}
	}
	return rec
}

// Label returns the human-readable name of the zero-based position.
func Label(position int) string {
	return "v" + strconv.Itoa(position+1)
}
