package hostfuncs

import (
	"fmt"

	"github.com/casper-native/erc20-host/domain/errors"
)

// UnsupportedFunction describes an ABI function with no native emulation.
// Every parameter is a 32-bit integer.
type UnsupportedFunction struct {
	Name      string
	Params    int
	HasResult bool
}

// UnsupportedFunctions lists host functions that are part of the ABI but have
// no native emulation. Contracts importing them still load; calling one halts.
var UnsupportedFunctions = []UnsupportedFunction{
	{"casper_add_associated_key", 3, true},
	{"casper_remove_associated_key", 2, true},
	{"casper_update_associated_key", 3, true},
	{"casper_set_action_threshold", 2, true},
	{"casper_create_purse", 2, true},
	{"casper_transfer_to_account", 7, true},
	{"casper_transfer_from_purse_to_account", 9, true},
	{"casper_transfer_from_purse_to_purse", 8, true},
	{"casper_record_transfer", 10, true},
	{"casper_record_era_info", 4, true},
	{"casper_get_balance", 3, true},
	{"casper_get_system_contract", 3, true},
	{"casper_get_main_purse", 1, false},
	{"casper_create_contract_package_at_hash", 3, false},
	{"casper_create_contract_user_group", 8, true},
	{"casper_add_contract_version", 10, true},
	{"casper_disable_contract_version", 4, true},
	{"casper_call_contract", 7, true},
	{"casper_call_versioned_contract", 9, true},
	{"casper_remove_contract_user_group", 4, true},
	{"casper_provision_contract_user_group_uref", 5, true},
	{"casper_remove_contract_user_group_urefs", 6, true},
	{"casper_load_call_stack", 2, true},
}

// NotEmulated halts the run for a call to an unsupported host function.
func (h *Host) NotEmulated(name string) {
	h.logger.Error("unsupported host function called", "function", name)
	errors.Fatal(name, fmt.Errorf("%w: %s", errors.ErrNotEmulated, name))
}
