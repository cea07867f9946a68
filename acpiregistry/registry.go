// Package acpiregistry provides a reference implementation of the loader's
// ACPI table Registry collaborator. The loader's second pass validates a
// header before calling Install; the registry checks again on its own,
// the way a platform table protocol refuses a header it can't parse.
package acpiregistry

import (
	"fmt"

	"github.com/sriramkidambi/acpi-fwcfg-loader/acpitable"
	"github.com/sriramkidambi/acpi-fwcfg-loader/loader"
)

type entry struct {
	signature string
	bytes     []byte
}

// TableRegistry is an in-memory loader.Registry. It refuses an explicit
// install of an RSDT or XSDT; it does not build either table from the
// installed set.
type TableRegistry struct {
	next      loader.TableHandle
	installed map[loader.TableHandle]entry
}

// NewTableRegistry returns an empty registry.
func NewTableRegistry() *TableRegistry {
	return &TableRegistry{installed: make(map[loader.TableHandle]entry)}
}

// Install implements loader.Registry.
func (r *TableRegistry) Install(table []byte) (loader.TableHandle, error) {
	if len(table) < acpitable.SDTHeaderLen && len(table) < acpitable.FACSHeaderLen {
		return 0, fmt.Errorf("acpiregistry: table too short to carry a header (%d bytes)", len(table))
	}

	sig := string(table[0:4])
	if sig == acpitable.SignatureRSDT || sig == acpitable.SignatureXSDT {
		return 0, fmt.Errorf("acpiregistry: %s is synthesised by the registry, refusing explicit install", sig)
	}

	r.next++
	handle := r.next
	r.installed[handle] = entry{signature: sig, bytes: append([]byte(nil), table...)}
	return handle, nil
}

// Uninstall implements loader.Registry.
func (r *TableRegistry) Uninstall(handle loader.TableHandle) error {
	if _, ok := r.installed[handle]; !ok {
		return fmt.Errorf("acpiregistry: unknown handle %d", handle)
	}
	delete(r.installed, handle)
	return nil
}

// Signatures returns the signatures of every currently installed table,
// for test assertions.
func (r *TableRegistry) Signatures() []string {
	out := make([]string, 0, len(r.installed))
	for _, e := range r.installed {
		out = append(out, e.signature)
	}
	return out
}

// Len reports how many tables are currently installed.
func (r *TableRegistry) Len() int { return len(r.installed) }
