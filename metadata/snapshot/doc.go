// Package snapshot provides an in-memory native runtime described by a
// YAML document.
//
// A snapshot implements the metadata accessor interfaces without a native
// library, for tests and offline inspection. Declaration order in the
// document is the iteration order of every enumerator, so fixtures control
// first-match-wins resolution explicitly:
//
//	images:
//	  - name: Assembly-CSharp
//	    classes:
//	      - namespace: Game
//	        name: Player
//	        fields:
//	          - {name: health, type: System.Int32, offset: 16}
//	        methods:
//	          - {name: Heal, token: 100663297, params: [System.Int32]}
//	icalls:
//	  "UnityEngine.Time::get_time": 4096
//
// Nested types of inflated classes are not reported by the native-style
// enumerator; NestedType walks the generic definition instead.
package snapshot
