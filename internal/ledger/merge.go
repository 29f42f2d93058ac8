package ledger

import "github.com/expenselens/walletledger/internal/models"

// Merge appends newly extracted entries to an existing ledger.
//
// With ignoreDuplicates set and a non-empty existing ledger, the sequences
// are concatenated and collapsed on the composite key (date token, amount,
// description), keeping the first occurrence, so existing rows win ties over
// new ones. The added count is then how much the ledger actually grew, so
// re-merging the same statement is idempotent and reports zero.
//
// Without ignoreDuplicates, or into an empty ledger, every new entry is
// appended unconditionally. Insertion order is preserved in all cases.
func Merge(existing, incoming []models.LedgerEntry, ignoreDuplicates bool) ([]models.LedgerEntry, int) {
	if !ignoreDuplicates || len(existing) == 0 {
		merged := make([]models.LedgerEntry, 0, len(existing)+len(incoming))
		merged = append(merged, existing...)
		merged = append(merged, incoming...)
		return merged, len(incoming)
	}

	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]models.LedgerEntry, 0, len(existing)+len(incoming))
	for _, e := range existing {
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		seen[e.Key()] = struct{}{}
		merged = append(merged, e)
	}
	for _, e := range incoming {
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		seen[e.Key()] = struct{}{}
		merged = append(merged, e)
	}

	added := len(merged) - len(existing)
	if added < 0 {
		added = 0
	}
	return merged, added
}
