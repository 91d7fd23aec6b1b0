package pdk

import (
	wasmpdk "github.com/wippyai/wasm-pdk"
	"github.com/wippyai/wasm-pdk/mem"
)

// GetVar reads a persistent variable. The second return is false when
// the key has no value.
func GetVar(key string) ([]byte, bool, error) {
	kb, err := mem.AllocString(key)
	if err != nil {
		return nil, false, err
	}
	defer kb.Free()

	vb := mem.Find(wasmpdk.Host().VarGet(kb.Offset))
	if vb.Offset == 0 {
		return nil, false, nil
	}
	defer vb.Free()
	return vb.Read(), true, nil
}

// SetVar stores a persistent variable. An empty value deletes the key,
// since the absent block is the host's deletion signal.
func SetVar(key string, value []byte) error {
	kb, err := mem.AllocString(key)
	if err != nil {
		return err
	}
	defer kb.Free()

	vb, err := mem.AllocBytes(value)
	if err != nil {
		return err
	}
	defer vb.Free()

	wasmpdk.Host().VarSet(kb.Offset, vb.Offset)
	return nil
}

// RemoveVar deletes a persistent variable.
func RemoveVar(key string) error {
	kb, err := mem.AllocString(key)
	if err != nil {
		return err
	}
	defer kb.Free()

	wasmpdk.Host().VarSet(kb.Offset, 0)
	return nil
}
