package pdk

import (
	wasmpdk "github.com/wippyai/wasm-pdk"
	"github.com/wippyai/wasm-pdk/mem"
)

// Config looks up a host-provided configuration value. The second
// return is false when the key is not set.
func Config(key string) (string, bool, error) {
	kb, err := mem.AllocString(key)
	if err != nil {
		return "", false, err
	}
	defer kb.Free()

	vb := mem.Find(wasmpdk.Host().ConfigGet(kb.Offset))
	if vb.Offset == 0 {
		return "", false, nil
	}
	defer vb.Free()
	return vb.ReadString(), true, nil
}
