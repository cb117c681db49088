package medicines

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TimeLayout es el formato de un horario de toma.
const TimeLayout = "15:04"

var ErrInvalidScheduleTime = errors.New("schedule time must be HH:MM (24h)")

// ParseScheduleTime valida un horario y lo devuelve con ceros ("8:05" => "08:05").
func ParseScheduleTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidScheduleTime, s)
	}
	return t.Format(TimeLayout), nil
}

// NormalizeScheduleTimes valida, deduplica y ordena ascendente.
// Nunca devuelve nil: sin horarios => slice vacío.
func NormalizeScheduleTimes(in []string) ([]string, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))

	for _, raw := range in {
		v, err := ParseScheduleTime(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	// HH:MM con ceros ordena igual lexicográfica que cronológicamente
	sort.Strings(out)
	return out, nil
}
