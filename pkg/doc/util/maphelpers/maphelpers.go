/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package maphelpers provides helper functions for working with maps.
package maphelpers

// CopyMap performs shallow copy of map and nested maps.
func CopyMap(m map[string]interface{}) map[string]interface{} {
	cm := make(map[string]interface{})

	for k, v := range m {
		vm, ok := v.(map[string]interface{})
		if ok {
			cm[k] = CopyMap(vm)
		} else {
			cm[k] = v
		}
	}

	return cm
}

// CopyMapWithoutKey copies a map, skipping the given top-level key.
func CopyMapWithoutKey(m map[string]interface{}, key string) map[string]interface{} {
	cm := make(map[string]interface{})

	for k, v := range m {
		if k == key {
			continue
		}

		vm, ok := v.(map[string]interface{})
		if ok {
			cm[k] = CopyMap(vm)
		} else {
			cm[k] = v
		}
	}

	return cm
}
