package search

import "strings"

// browseLimit caps the unfiltered "browse everything" result set.
const browseLimit = 500

// buildQuery translates a request into one parameterized SQL statement.
// Items join localized rows inner (unlocalized items are not searchable) and
// equipment stats left (items without equipment still appear). All filter
// values, including the category list, travel as bind parameters.
func buildQuery(req Request) (string, []interface{}, bool) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString(`SELECT i.id, i.icon, i.level, l.name, l.tooltip, i.link_equipment_id,
       e.balance, e.defense, e.impact, e.max_attack, i.rare_grade
FROM items i
JOIN localized_items l ON i.id = l.id
LEFT JOIN equipment_stats e ON i.link_equipment_id = e.equipment_id
`)

	if req.Numeric {
		sb.WriteString("WHERE i.id = ?")
		args = append(args, req.ID)
	} else {
		sb.WriteString("WHERE l.name LIKE ? COLLATE NOCASE")
		args = append(args, "%"+req.Text+"%")
	}

	if len(req.Categories) > 0 {
		sb.WriteString(" AND i.category IN (?")
		sb.WriteString(strings.Repeat(",?", len(req.Categories)-1))
		sb.WriteString(")")
		for _, c := range req.Categories {
			args = append(args, c)
		}
	}

	sb.WriteString(" ORDER BY i.id")

	limited := req.Text == "" && len(req.Categories) == 0
	if limited {
		sb.WriteString(" LIMIT ?")
		args = append(args, browseLimit)
	}
	return sb.String(), args, limited
}
