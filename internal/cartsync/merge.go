package cartsync

// Merge reconciles a local cart baseline with the authoritative server cart.
//
// Server lines come first in their original order. When both carts hold the
// same item the merged quantity is the larger of the two, so the merge never
// decreases a server quantity and never drops a local addition. Local-only
// lines are appended after the server lines, keeping their local relative
// order. Running the merge twice over its own output changes nothing.
//
// The total carried on the result is recomputed from the line hydrations
// present; callers that need live prices re-hydrate afterwards.
func Merge(local, server Snapshot) Snapshot {
	localByItem := make(map[string]Line, len(local.Lines))
	for _, line := range local.Lines {
		localByItem[line.ItemID.String()] = line
	}

	merged := make([]Line, 0, len(server.Lines)+len(local.Lines))
	seen := make(map[string]struct{}, len(server.Lines))

	for _, line := range server.Lines {
		key := line.ItemID.String()
		seen[key] = struct{}{}
		if localLine, ok := localByItem[key]; ok && localLine.Quantity > line.Quantity {
			line.Quantity = localLine.Quantity
		}
		merged = append(merged, line)
	}

	for _, line := range local.Lines {
		if _, ok := seen[line.ItemID.String()]; ok {
			continue
		}
		merged = append(merged, line)
	}

	return Snapshot{
		Lines: merged,
		Total: computeTotal(merged),
	}
}
