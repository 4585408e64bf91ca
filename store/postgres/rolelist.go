package postgres

import (
	"encoding/json"
	"strings"

	"github.com/guildgamesh/guildgamesh-backend/logger"
)

// parseRoleList decodes a stored role-list column into a clean string slice.
// Columns hold a JSON array of role ids, but two legacy shapes survive in
// production data: a bare single role id, and corrupt JSON. The rules are:
//
//   - empty/NULL        -> empty list
//   - valid JSON array  -> its non-empty string elements
//   - bare value        -> one-element list (legacy single-role storage)
//   - corrupt JSON      -> empty list, logged
//
// A configuration error must degrade to "no roles configured", never to a
// parse failure surfacing as an access error or, worse, a bypass.
func parseRoleList(raw string) []string {
	if raw == "" {
		return []string{}
	}

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		var ids []string
		if err := json.Unmarshal([]byte(trimmed), &ids); err != nil {
			logger.GetLogger().Warnw("Malformed role list column, treating as empty",
				"value", logger.MaskSensitiveString(raw, 4, 0),
				"error", err,
			)
			return []string{}
		}
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if id != "" {
				out = append(out, id)
			}
		}
		return out
	}

	// Legacy single-value storage.
	return []string{trimmed}
}

// encodeRoleList marshals a role list for storage. Nil encodes as an empty
// JSON array so reads never have to special-case NULL vs empty.
func encodeRoleList(ids []string) string {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		// A []string cannot fail to marshal; keep the column well-formed anyway.
		return "[]"
	}
	return string(data)
}
