// Package config manages the directory of named network definitions.
//
// Each file in the directory is one network; its identifier is the file name
// without extension. JSON (.json) and YAML (.yaml, .yml) are both accepted:
//
//	name: sample
//	cities: 4
//	fuel_capacity: 100
//	roads:
//	  - {from: 1, to: 2, distance: 80}
//	  - {from: 2, to: 4, distance: 90}
//	fuel_stations: [2]
//
// Usage:
//
//	manager, err := config.NewManager("networks")
//	if err != nil {
//		log.Fatal(err)
//	}
//	network, err := manager.LoadConfig("sample")
//
// The default network is "sample" when that file exists, otherwise the first
// valid file in the directory, otherwise the built-in engine.SampleNetwork.
package config
