package runtime

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/casper-native/erc20-host/domain/entities"
)

// clTypeFor returns the CLType whose inner bytes decode into target.
func clTypeFor(target any) (entities.CLType, error) {
	switch target.(type) {
	case *bool:
		return entities.Simple(entities.CLTypeBool), nil
	case *int32:
		return entities.Simple(entities.CLTypeI32), nil
	case *int64:
		return entities.Simple(entities.CLTypeI64), nil
	case *uint8:
		return entities.Simple(entities.CLTypeU8), nil
	case *uint32:
		return entities.Simple(entities.CLTypeU32), nil
	case *uint64:
		return entities.Simple(entities.CLTypeU64), nil
	case *string:
		return entities.Simple(entities.CLTypeString), nil
	case **uint256.Int:
		return entities.Simple(entities.CLTypeU256), nil
	case **big.Int:
		return entities.Simple(entities.CLTypeU512), nil
	case *entities.Key:
		return entities.Simple(entities.CLTypeKey), nil
	case *entities.URef:
		return entities.Simple(entities.CLTypeURef), nil
	case *struct{}:
		return entities.Simple(entities.CLTypeUnit), nil
	case *[]byte:
		return entities.ListOf(entities.Simple(entities.CLTypeU8)), nil
	case *[]string:
		return entities.ListOf(entities.Simple(entities.CLTypeString)), nil
	default:
		return entities.CLType{}, fmt.Errorf("%w: %T", entities.ErrUnsupportedType, target)
	}
}

// decodeInner decodes untyped inner bytes, as delivered for named arguments,
// into target.
func decodeInner(inner []byte, target any) error {
	typ, err := clTypeFor(target)
	if err != nil {
		return err
	}
	return entities.NewCLValue(typ, inner).Into(target)
}
