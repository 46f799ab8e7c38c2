package crm

// Resolve looks up a record by identifier in a collection already fetched
// from a store. Foreign keys are non-owning references resolved at read
// time; a dangling reference simply misses, it never fails. Returns the
// record and true on a hit, the zero value and false otherwise.
func Resolve[T interface{ EntityID() int }](records []T, id int) (T, bool) {
	for _, r := range records {
		if r.EntityID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}
