//
//  Copyright © Fieldworks Inc. All rights reserved.
//

package engine

import (
	"sort"
	"strings"

	"github.com/fieldworks/permengine/pkg/engine/types"
)

// absentField is the sentinel for optional entity attributes that were
// not supplied. escapeField never emits a bare "-", so the sentinel can
// never collide with a caller-supplied value.
const absentField = "-"

// fieldEscaper escapes the signature delimiters and the absent-field
// sentinel inside caller-supplied values. Ids arrive from callers (and
// over the REST surface) as arbitrary strings, so without escaping a
// delimiter embedded in one field could shift the following fields and
// make two different contexts share a cache key.
var fieldEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	";", `\;`,
	",", `\,`,
	"=", `\=`,
	"-", `\-`,
)

func escapeField(s string) string {
	if s == "" {
		return absentField
	}
	return fieldEscaper.Replace(s)
}

// membershipSignature renders team memberships sorted by team id, so two
// UserContexts holding the same memberships in different order produce
// the same signature.
func membershipSignature(memberships []types.TeamMembership) string {
	if len(memberships) == 0 {
		return absentField
	}

	sorted := make([]types.TeamMembership, len(memberships))
	copy(sorted, memberships)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TeamID < sorted[j].TeamID
	})

	parts := make([]string, len(sorted))
	for i, m := range sorted {
		parts[i] = escapeField(m.TeamID) + "=" + escapeField(string(m.Role))
	}
	return strings.Join(parts, ",")
}

// entitySignature canonicalizes an entity context. A nil context and a
// zero-valued context serialize identically since both mean "no entity
// attributes"; distinct team or assignee ids always yield distinct
// signatures, which is what keeps cached team-isolation decisions apart.
func entitySignature(entity *types.EntityContext) string {
	if entity == nil {
		return strings.Join([]string{absentField, absentField, absentField}, ";")
	}

	fields := []string{
		escapeField(entity.TeamID),
		escapeField(entity.AssigneeID),
		escapeField(entity.OrganizationID),
	}
	return strings.Join(fields, ";")
}

// contextSignature is the deterministic serialization of everything about
// a check except the permission itself. Batch evaluation computes it once
// and reuses it across the permission list.
func contextSignature(user types.UserContext, entity *types.EntityContext) string {
	return strings.Join([]string{
		escapeField(user.UserID),
		escapeField(user.OrganizationID),
		escapeField(string(user.Role)),
		membershipSignature(user.TeamMemberships),
		entitySignature(entity),
	}, "|")
}

// cacheKey completes a context signature with the permission name.
func cacheKey(signature string, permission types.Permission) string {
	return signature + "|" + escapeField(string(permission))
}
