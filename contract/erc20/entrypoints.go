package erc20

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/casper-native/erc20-host/contract/runtime"
	"github.com/casper-native/erc20-host/domain/ports"
	"github.com/casper-native/erc20-host/host"
)

// Runtime argument names.
const (
	ArgName        = "name"
	ArgSymbol      = "symbol"
	ArgDecimals    = "decimals"
	ArgTotalSupply = "total_supply"
	ArgAddress     = "address"
	ArgOwner       = "owner"
	ArgSpender     = "spender"
	ArgRecipient   = "recipient"
	ArgAmount      = "amount"
)

// Entry point names. EntryPointInstall is the session entry point that installs the token.
const (
	EntryPointInstall      = "call"
	EntryPointName         = "name"
	EntryPointSymbol       = "symbol"
	EntryPointDecimals     = "decimals"
	EntryPointTotalSupply  = "total_supply"
	EntryPointBalanceOf    = "balance_of"
	EntryPointTransfer     = "transfer"
	EntryPointApprove      = "approve"
	EntryPointAllowance    = "allowance"
	EntryPointTransferFrom = "transfer_from"
)

// Call installs the token from the name, symbol, decimals and total_supply arguments.
func Call(_ context.Context, api ports.HostABI) {
	args := InstallArgs{
		Name:        runtime.GetNamedArg[string](api, ArgName),
		Symbol:      runtime.GetNamedArg[string](api, ArgSymbol),
		Decimals:    runtime.GetNamedArg[uint8](api, ArgDecimals),
		TotalSupply: runtime.GetNamedArg[*uint256.Int](api, ArgTotalSupply),
	}
	_, err := Install(api, args)
	runtime.UnwrapOrRevert(api, struct{}{}, err)
}

func name(_ context.Context, api ports.HostABI) {
	runtime.Ret(api, Load(api).Name())
}

func symbol(_ context.Context, api ports.HostABI) {
	runtime.Ret(api, Load(api).Symbol())
}

func decimals(_ context.Context, api ports.HostABI) {
	runtime.Ret(api, Load(api).Decimals())
}

func totalSupply(_ context.Context, api ports.HostABI) {
	runtime.Ret(api, Load(api).TotalSupply())
}

func balanceOf(_ context.Context, api ports.HostABI) {
	address := addressArg(api, ArgAddress)
	runtime.Ret(api, Load(api).BalanceOf(address))
}

func transfer(_ context.Context, api ports.HostABI) {
	recipient := addressArg(api, ArgRecipient)
	amount := runtime.GetNamedArg[*uint256.Int](api, ArgAmount)
	runtime.UnwrapOrRevert(api, struct{}{}, Load(api).Transfer(recipient, amount))
}

func approve(_ context.Context, api ports.HostABI) {
	spender := addressArg(api, ArgSpender)
	amount := runtime.GetNamedArg[*uint256.Int](api, ArgAmount)
	runtime.UnwrapOrRevert(api, struct{}{}, Load(api).Approve(spender, amount))
}

func allowance(_ context.Context, api ports.HostABI) {
	owner := addressArg(api, ArgOwner)
	spender := addressArg(api, ArgSpender)
	runtime.Ret(api, Load(api).Allowance(owner, spender))
}

func transferFrom(_ context.Context, api ports.HostABI) {
	owner := addressArg(api, ArgOwner)
	recipient := addressArg(api, ArgRecipient)
	amount := runtime.GetNamedArg[*uint256.Int](api, ArgAmount)
	runtime.UnwrapOrRevert(api, struct{}{}, Load(api).TransferFrom(owner, recipient, amount))
}

// Argument models published as JSON schemas.
type (
	installModel struct {
		Name        string `json:"name" jsonschema:"required,description=Token name (String)"`
		Symbol      string `json:"symbol" jsonschema:"required,description=Token symbol (String)"`
		TotalSupply string `json:"total_supply" jsonschema:"required,description=Initial supply credited to the caller (U256 decimal)"`
		Decimals    uint8  `json:"decimals" jsonschema:"required,description=Display decimals (U8)"`
	}
	balanceOfModel struct {
		Address string `json:"address" jsonschema:"required,description=Holder (Key: account-hash or hash)"`
	}
	transferModel struct {
		Recipient string `json:"recipient" jsonschema:"required,description=Receiver (Key)"`
		Amount    string `json:"amount" jsonschema:"required,description=Amount (U256 decimal)"`
	}
	approveModel struct {
		Spender string `json:"spender" jsonschema:"required,description=Spender (Key)"`
		Amount  string `json:"amount" jsonschema:"required,description=Allowance (U256 decimal)"`
	}
	allowanceModel struct {
		Owner   string `json:"owner" jsonschema:"required,description=Owner (Key)"`
		Spender string `json:"spender" jsonschema:"required,description=Spender (Key)"`
	}
	transferFromModel struct {
		Owner     string `json:"owner" jsonschema:"required,description=Owner (Key)"`
		Recipient string `json:"recipient" jsonschema:"required,description=Receiver (Key)"`
		Amount    string `json:"amount" jsonschema:"required,description=Amount (U256 decimal)"`
	}
	noArgs struct{}
)

type bundle struct{}

// Bundle returns every token entry point for registration with a host.EntryPointRegistry.
func Bundle() host.Bundle {
	return bundle{}
}

func (bundle) EntryPoints() map[string]host.EntryPoint {
	return map[string]host.EntryPoint{
		EntryPointInstall:      Call,
		EntryPointName:         name,
		EntryPointSymbol:       symbol,
		EntryPointDecimals:     decimals,
		EntryPointTotalSupply:  totalSupply,
		EntryPointBalanceOf:    balanceOf,
		EntryPointTransfer:     transfer,
		EntryPointApprove:      approve,
		EntryPointAllowance:    allowance,
		EntryPointTransferFrom: transferFrom,
	}
}

// ArgModels implements host.ArgDescriber.
func (bundle) ArgModels() map[string]any {
	return map[string]any{
		EntryPointInstall:      installModel{},
		EntryPointName:         noArgs{},
		EntryPointSymbol:       noArgs{},
		EntryPointDecimals:     noArgs{},
		EntryPointTotalSupply:  noArgs{},
		EntryPointBalanceOf:    balanceOfModel{},
		EntryPointTransfer:     transferModel{},
		EntryPointApprove:      approveModel{},
		EntryPointAllowance:    allowanceModel{},
		EntryPointTransferFrom: transferFromModel{},
	}
}
