// Package hashmap provides an open-addressing hash table over fixed-width
// scalar keys and values.
//
// Keys, values and slot states live in three parallel slices, so a
// Map[int64, float64] stores no pointers and costs the garbage collector
// nothing to scan.
//
// # Absent Keys
//
// There is no separate "missing" marker. Get, Put and Remove report the map's
// no-entry value for absent keys (zero unless set with NewWithSentinels). Use
// Lookup or ContainsKey when the no-entry value is also a legitimate value.
//
// # Probing
//
// Capacities are prime. A key starts at hash mod capacity and steps downward
// by 1 + hash mod (capacity-2), which visits every slot before repeating.
// Removed slots become tombstones: lookups skip them, inserts reuse them.
//
// Keys compare with ==. A NaN key is stored but can never be found again.
//
// # Growth and Compaction
//
// The table doubles (to the next prime) once the live count exceeds
// capacity times the load factor, and rebuilds in place when tombstones have
// consumed every free slot. Removals also spend an auto-compaction budget;
// when it runs out the table is rebuilt without tombstones. Bulk removals
// should be bracketed:
//
//	m.DisableAutoCompaction()
//	for _, k := range stale {
//		m.Remove(k)
//	}
//	m.EnableAutoCompaction(true)
//
// # Concurrency
//
// A Map is owned by one goroutine at a time. Iterators detect, but do not
// prevent, modifications made behind their back.
package hashmap
