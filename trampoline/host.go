package trampoline

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// Host returns a wazero host function that traps with the unresolved error
// for description. wazero recovers the panic and returns it from the guest
// call that reached the import.
func Host(description string) api.GoModuleFunction {
	return api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
		name := ""
		if mod != nil {
			name = mod.Name()
		}
		Logger().Error("unresolved host import called",
			zap.String("symbol", description),
			zap.String("module", name),
			zap.Int("stack", len(stack)),
		)
		panic(Error(description))
	})
}

// ExportHost defines a trapping host function named name on builder with
// the exact params and results the guest imports it with.
func ExportHost(builder wazero.HostModuleBuilder, name, description string, params, results []api.ValueType) wazero.HostModuleBuilder {
	return builder.NewFunctionBuilder().
		WithGoModuleFunction(Host(description), params, results).
		WithName(name).
		Export(name)
}
