package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params   []TypeID // parameter types, in order
	Result   TypeID
	Variadic bool
}

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(params []TypeID, result TypeID, variadic bool) TypeID {
	if in != nil {
		for id := TypeID(1); int(id) < len(in.types); id++ {
			tt := in.types[id]
			if tt.Kind != KindFunction {
				continue
			}
			if int(tt.Payload) >= len(in.fns) {
				continue
			}
			info := in.fns[tt.Payload]
			if info.Result == result && info.Variadic == variadic && slices.Equal(info.Params, params) {
				return id
			}
		}
	}
	slot := in.appendFnInfo(FnInfo{
		Params:   slices.Clone(params),
		Result:   result,
		Variadic: variadic,
	})
	return in.internRaw(Type{Kind: KindFunction, Payload: slot})
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFunction {
		return nil, false
	}
	if int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

func (in *Interner) appendFnInfo(info FnInfo) uint32 {
	in.fns = append(in.fns, info)
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("fn info overflow: %w", err))
	}
	return slot
}
