// Package erc20 is a fungible token contract written against the host ABI.
//
// Token metadata lives under named keys, each pointing at a reference that
// holds the value. Balances and allowances are dictionaries: balances are
// keyed by the base64 encoding of the holder address, allowances by the hex
// blake2b digest of owner and spender addresses.
package erc20

import (
	"github.com/go-playground/validator/v10"
	"github.com/holiman/uint256"

	"github.com/casper-native/erc20-host/contract/runtime"
	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/domain/ports"
	contractlog "github.com/casper-native/erc20-host/log"
)

// Named keys created by Install.
const (
	NameKey        = "name"
	SymbolKey      = "symbol"
	DecimalsKey    = "decimals"
	TotalSupplyKey = "total_supply"
	BalancesKey    = "balances"
	AllowancesKey  = "allowances"
)

var validate = validator.New()

// InstallArgs are the arguments of the installer. Name and symbol may be any
// string, including an empty one.
type InstallArgs struct {
	TotalSupply *uint256.Int `validate:"required"`
	Name        string
	Symbol      string
	Decimals    uint8
}

// Token is a handle on an installed token.
type Token struct {
	api         ports.HostABI
	name        entities.URef
	symbol      entities.URef
	decimals    entities.URef
	totalSupply entities.URef
	balances    entities.URef
	allowances  entities.URef
}

// Install creates the token's named keys and credits the whole supply to the caller.
func Install(api ports.HostABI, args InstallArgs) (*Token, error) {
	if err := validate.Struct(args); err != nil {
		return nil, errors.ErrInvalidArgument
	}

	t := &Token{api: api}
	t.name = runtime.NewURef(api, args.Name)
	t.symbol = runtime.NewURef(api, args.Symbol)
	t.decimals = runtime.NewURef(api, args.Decimals)
	t.totalSupply = runtime.NewURef(api, args.TotalSupply)

	var err error
	if t.balances, err = runtime.NewDictionary(api, BalancesKey); err != nil {
		return nil, err
	}
	if t.allowances, err = runtime.NewDictionary(api, AllowancesKey); err != nil {
		return nil, err
	}

	runtime.PutKey(api, NameKey, t.name.Key())
	runtime.PutKey(api, SymbolKey, t.symbol.Key())
	runtime.PutKey(api, DecimalsKey, t.decimals.Key())
	runtime.PutKey(api, TotalSupplyKey, t.totalSupply.Key())

	owner, err := callerAddress(api)
	if err != nil {
		return nil, err
	}
	t.writeBalance(owner, args.TotalSupply)

	contractlog.New(api).Info("token installed",
		"name", args.Name,
		"symbol", args.Symbol,
		"total_supply", args.TotalSupply.Dec(),
		"owner", owner.String(),
	)
	return t, nil
}

// Load resolves an installed token from the named-key directory. A missing
// key reverts with MissingKey.
func Load(api ports.HostABI) *Token {
	return &Token{
		api:         api,
		name:        runtime.URefFromKey(api, NameKey),
		symbol:      runtime.URefFromKey(api, SymbolKey),
		decimals:    runtime.URefFromKey(api, DecimalsKey),
		totalSupply: runtime.URefFromKey(api, TotalSupplyKey),
		balances:    runtime.URefFromKey(api, BalancesKey),
		allowances:  runtime.URefFromKey(api, AllowancesKey),
	}
}

// Name returns the token name.
func (t *Token) Name() string {
	return runtime.ReadOrRevert[string](t.api, t.name.Key())
}

// Symbol returns the token symbol.
func (t *Token) Symbol() string {
	return runtime.ReadOrRevert[string](t.api, t.symbol.Key())
}

// Decimals returns the number of display decimals.
func (t *Token) Decimals() uint8 {
	return runtime.ReadOrRevert[uint8](t.api, t.decimals.Key())
}

// TotalSupply returns the amount of tokens in existence.
func (t *Token) TotalSupply() *uint256.Int {
	return runtime.ReadOrRevert[*uint256.Int](t.api, t.totalSupply.Key())
}

// BalanceOf returns the balance of owner, zero when it never held tokens.
func (t *Token) BalanceOf(owner Address) *uint256.Int {
	return t.readAmount(t.balances, balanceItemKey(owner))
}

// Allowance returns how much spender may still move on behalf of owner.
func (t *Token) Allowance(owner, spender Address) *uint256.Int {
	return t.readAmount(t.allowances, allowanceItemKey(t.api, owner, spender))
}

// Transfer moves amount from the caller to recipient.
func (t *Token) Transfer(recipient Address, amount *uint256.Int) error {
	sender, err := callerAddress(t.api)
	if err != nil {
		return err
	}
	return t.transferBalance(sender, recipient, amount)
}

// Approve sets the amount spender may move on behalf of the caller.
func (t *Token) Approve(spender Address, amount *uint256.Int) error {
	owner, err := callerAddress(t.api)
	if err != nil {
		return err
	}
	t.writeAllowance(owner, spender, amount)
	return nil
}

// TransferFrom moves amount from owner to recipient, spending the caller's allowance.
func (t *Token) TransferFrom(owner, recipient Address, amount *uint256.Int) error {
	spender, err := callerAddress(t.api)
	if err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	allowance := t.Allowance(owner, spender)
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := t.transferBalance(owner, recipient, amount); err != nil {
		return err
	}
	t.writeAllowance(owner, spender, new(uint256.Int).Sub(allowance, amount))
	return nil
}

// Mint credits amount to owner and grows the total supply.
func (t *Token) Mint(owner Address, amount *uint256.Int) error {
	balance, overflow := new(uint256.Int).AddOverflow(t.BalanceOf(owner), amount)
	if overflow {
		return ErrOverflow
	}
	supply, overflow := new(uint256.Int).AddOverflow(t.TotalSupply(), amount)
	if overflow {
		return ErrOverflow
	}
	t.writeBalance(owner, balance)
	runtime.Write(t.api, t.totalSupply, supply)
	return nil
}

// Burn debits amount from owner and shrinks the total supply.
func (t *Token) Burn(owner Address, amount *uint256.Int) error {
	balance := t.BalanceOf(owner)
	if balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	supply := t.TotalSupply()
	if supply.Lt(amount) {
		return ErrOverflow
	}
	t.writeBalance(owner, new(uint256.Int).Sub(balance, amount))
	runtime.Write(t.api, t.totalSupply, new(uint256.Int).Sub(supply, amount))
	return nil
}

func (t *Token) transferBalance(sender, recipient Address, amount *uint256.Int) error {
	if sender.Key() == recipient.Key() || amount.IsZero() {
		return nil
	}
	senderBalance := t.BalanceOf(sender)
	if senderBalance.Lt(amount) {
		return ErrInsufficientBalance
	}
	recipientBalance, overflow := new(uint256.Int).AddOverflow(t.BalanceOf(recipient), amount)
	if overflow {
		return ErrOverflow
	}
	t.writeBalance(sender, new(uint256.Int).Sub(senderBalance, amount))
	t.writeBalance(recipient, recipientBalance)
	return nil
}

func (t *Token) readAmount(seed entities.URef, itemKey string) *uint256.Int {
	v, ok, err := runtime.DictionaryGet[*uint256.Int](t.api, seed, itemKey)
	if err != nil {
		t.api.Revert(errors.AsApiError(err))
	}
	if !ok {
		return new(uint256.Int)
	}
	return v
}

func (t *Token) writeBalance(owner Address, amount *uint256.Int) {
	runtime.DictionaryPut(t.api, t.balances, balanceItemKey(owner), amount)
}

func (t *Token) writeAllowance(owner, spender Address, amount *uint256.Int) {
	runtime.DictionaryPut(t.api, t.allowances, allowanceItemKey(t.api, owner, spender), amount)
}

// callerAddress returns the invoking account as an Address.
func callerAddress(api ports.HostABI) (Address, error) {
	addr, ok := AddressFromKey(runtime.GetCaller(api))
	if !ok {
		return Address{}, ErrInvalidContext
	}
	return addr, nil
}
