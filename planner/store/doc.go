// Package store keeps computed trip plans.
//
// Manager is a thread-safe in-memory map of plans keyed by UUID, optionally
// backed by a PlanPersistence. With FilePersistence every plan is written as
// one indented JSON file named <id>.json, and plans missing from memory are
// loaded from disk on demand.
//
//	persistence, err := store.NewFilePersistence("plans")
//	if err != nil {
//		log.Fatal(err)
//	}
//	plans := store.NewManagerWithPersistence(persistence)
//	if err := plans.LoadPersisted(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
//
// Plans never change after Create, so expiry is based on creation time.
package store
