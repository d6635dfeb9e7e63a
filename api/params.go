package api

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func errInvalidQuery(name string) error {
	return fmt.Errorf("invalid query parameter %q", name)
}
