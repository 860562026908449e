package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"sort"
	"strings"

	"github.com/vsinha/sourcing/pkg/application/services/planning"
	"github.com/vsinha/sourcing/pkg/domain/entities"
	"github.com/vsinha/sourcing/pkg/infrastructure/repositories/sheet"
)

const (
	unitSep   = "\x1f"
	recordSep = "\x1e"
	groupSep  = "\x1d"
)

// Fingerprint hashes the normalized tables and the parameters of a run. Two
// runs with the same fingerprint produce the same result.
func Fingerprint(in planning.Input, params planning.Params) string {
	h := sha256.New()

	for _, t := range []*sheet.Table{in.Capacity, in.Materials, in.Clients, in.Demand} {
		writeTable(h, t)
	}
	writeParams(h, params)

	return hex.EncodeToString(h.Sum(nil))
}

func writeTable(h hash.Hash, t *sheet.Table) {
	if t == nil {
		io.WriteString(h, groupSep)
		return
	}
	io.WriteString(h, t.Name+recordSep)
	io.WriteString(h, strings.Join(t.Header, unitSep)+recordSep)
	for _, row := range t.Rows {
		// Trailing empty cells read the same as missing ones
		end := len(row)
		for end > 0 && row[end-1] == "" {
			end--
		}
		io.WriteString(h, strings.Join(row[:end], unitSep)+recordSep)
	}
	io.WriteString(h, groupSep)
}

func writeParams(h hash.Hash, p planning.Params) {
	fields := []string{
		"price=" + p.PricePerDistance.String(),
		"source=" + strings.ToLower(p.PriceSource),
		"default=" + p.DefaultThreshold.String(),
		"class=" + p.OrderClass,
		"primary=" + p.Centers.PrimaryPattern,
	}

	weeks := make([]string, 0, len(p.Thresholds))
	for w := range p.Thresholds {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)
	for _, w := range weeks {
		fields = append(fields, "week:"+w+"="+p.Thresholds[w].String())
	}

	ids := make([]string, 0, len(p.Centers.Aliases))
	for id := range p.Centers.Aliases {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		fields = append(fields, "alias:"+id+"="+p.Centers.Aliases[entities.CenterID(id)])
	}

	io.WriteString(h, strings.Join(fields, unitSep)+groupSep)
}
