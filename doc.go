// Package il2cppruntime resolves native symbols and metadata of an
// ahead-of-time compiled managed runtime.
//
// The native runtime exposes its class, method, field and type metadata
// only through a C-style export table whose names may be obfuscated. This
// module maps those names back, binds the exports, and answers descriptive
// queries ("method Heal(System.Int32) of Game.Player in Assembly-CSharp")
// with native handles.
//
// # Architecture Overview
//
//	il2cppruntime/       Root package with the Memory and FieldWriter interfaces
//	├── runtime/         Config and one-shot startup wiring
//	├── exports/         Obfuscated to true export name map, library fingerprint
//	├── loader/          Native library loading and typed export binding
//	├── native/          Accessor bindings over a loaded library
//	├── metadata/        Opaque handles and accessor interfaces
//	│   └── snapshot/    YAML-described in-memory runtime for tests and offline use
//	├── managed/         Managed type descriptors and native type-name rendering
//	├── registry/        Assembly name to image registry
//	├── resolver/        Class, field, nested type, method and icall resolution
//	├── trampoline/      Failing stand-ins for symbols that did not resolve
//	├── bridge/          Native value, string and object decoding
//	├── pool/            One Go wrapper per native object
//	├── guest/           Intrinsic calls exposed to WebAssembly guests
//	└── errors/          Structured error types
//
// # Quick Start
//
//	cfg, err := runtime.LoadConfig("il2cpp.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rt, err := runtime.Open(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	player := rt.Resolver.Class("Assembly-CSharp", "Game", "Player")
//	heal := rt.Resolver.Method(player, resolver.Signature("Heal", false,
//	    managed.Void, managed.Int32))
//
//	_, err = rt.Resolver.Invoke(heal.Handle, obj, arg)
//
// # Failure Model
//
// Malformed name maps abort startup. Everything after startup degrades
// instead of failing: classes, fields and nested types come back null and
// are logged; methods and intrinsic calls that cannot be found come back as
// placeholders and trampolines that fail with errors.KindUnresolved when
// first used.
package il2cppruntime
