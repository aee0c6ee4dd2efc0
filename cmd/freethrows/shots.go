package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tenfreethrows/freethrows/internal/app"
)

// parseShots reads "vx,vy;vx,vy" into shots. Blank entries are skipped.
func parseShots(list string) ([]app.Shot, error) {
	var shots []app.Shot
	for i, part := range strings.Split(list, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		xy := strings.Split(part, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("shot %d: want vx,vy, got %q", i+1, part)
		}
		vx, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("shot %d: vx: %w", i+1, err)
		}
		vy, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("shot %d: vy: %w", i+1, err)
		}
		shots = append(shots, app.Shot{VX: vx, VY: vy})
	}
	if len(shots) == 0 {
		return nil, fmt.Errorf("no shots given")
	}
	return shots, nil
}
