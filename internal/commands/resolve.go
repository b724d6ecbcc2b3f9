package commands

import (
	"fmt"
	"strings"

	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/models"
)

// resolveItem finds a master by full ID or unique prefix.
func resolveItem(idOrPrefix string) (*models.Item, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, fmt.Errorf("item ID is required")
	}

	items, err := db.GetItems()
	if err != nil {
		return nil, err
	}

	var matches []models.Item
	for _, it := range items {
		if it.ID == idOrPrefix {
			return &it, nil
		}
		if strings.HasPrefix(it.ID, idOrPrefix) {
			matches = append(matches, it)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no item matches ID '%s'", idOrPrefix)
	case 1:
		return &matches[0], nil
	default:
		var ids []string
		for _, it := range matches {
			ids = append(ids, shortID(it.ID))
		}
		return nil, fmt.Errorf("ID '%s' is ambiguous: %s", idOrPrefix, strings.Join(ids, ", "))
	}
}
