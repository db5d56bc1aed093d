// Package runtime opens a native runtime and wires every component of the
// module around it.
//
// # Quick Start
//
//	cfg, err := runtime.LoadConfig("il2cpp.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rt, err := runtime.Open(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
// # Configuration
//
//	library: GameAssembly            # base name or path
//	names:
//	  obfuscated: savedSecretNameNoEnc.txt
//	  true: savedSecretName.txt
//	fingerprint: savedGAhash.txt
//	strict_fingerprint: false
//	strict_exports: false
//	log_level: info
//
// # Startup Order
//
// Open installs loggers, loads the export name map, checks the library
// fingerprint, opens the library, binds its exports, builds the image
// registry, and creates the resolver and the value bridge. A malformed
// name map fails Open; a stale fingerprint or missing exports are logged
// unless the matching strict option is set.
//
// New wires only the registry and resolver, over any metadata source:
//
//	snap, _ := snapshot.Load("game.yaml")
//	rt := runtime.New(snap)
package runtime
