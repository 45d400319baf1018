package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/casper-native/erc20-host/domain/entities"
	"github.com/casper-native/erc20-host/wireformat"
)

// ApiError is a status code crossing the host ABI. Zero is never an ApiError:
// it stands for success on the wire.
type ApiError uint32

// Codes published by the host ABI.
const (
	ErrNone                           ApiError = 1
	ErrMissingArgument                ApiError = 2
	ErrInvalidArgument                ApiError = 3
	ErrDeserialize                    ApiError = 4
	ErrRead                           ApiError = 5
	ErrValueNotFound                  ApiError = 6
	ErrContractNotFound               ApiError = 7
	ErrGetKey                         ApiError = 8
	ErrUnexpectedKeyVariant           ApiError = 9
	ErrUnexpectedContractRefVariant   ApiError = 10
	ErrInvalidPurseName               ApiError = 11
	ErrInvalidPurse                   ApiError = 12
	ErrUpgradeContractAtURef          ApiError = 13
	ErrTransfer                       ApiError = 14
	ErrNoAccessRights                 ApiError = 15
	ErrCLTypeMismatch                 ApiError = 16
	ErrEarlyEndOfStream               ApiError = 17
	ErrFormatting                     ApiError = 18
	ErrLeftOverBytes                  ApiError = 19
	ErrOutOfMemory                    ApiError = 20
	ErrMaxKeysLimit                   ApiError = 21
	ErrDuplicateKey                   ApiError = 22
	ErrPermissionDenied               ApiError = 23
	ErrMissingKey                     ApiError = 24
	ErrThresholdViolation             ApiError = 25
	ErrKeyManagementThreshold         ApiError = 26
	ErrDeploymentThreshold            ApiError = 27
	ErrInsufficientTotalWeight        ApiError = 28
	ErrInvalidSystemContract          ApiError = 29
	ErrPurseNotCreated                ApiError = 30
	ErrUnhandled                      ApiError = 31
	ErrBufferTooSmall                 ApiError = 32
	ErrHostBufferEmpty                ApiError = 33
	ErrHostBufferFull                 ApiError = 34
	ErrAllocLayout                    ApiError = 35
	ErrDictionaryItemKeyExceedsLength ApiError = 36
	ErrInvalidDictionaryItemKey       ApiError = 37
	ErrMissingSystemContractHash      ApiError = 38
	ErrExceededRecursionDepth         ApiError = 39
	ErrNonRepresentableSerialization  ApiError = 40
)

// Reserved ranges for system contract and user-defined errors.
const (
	auctionErrorOffset        ApiError = 64_512
	contractHeaderErrorOffset ApiError = 64_768
	mintErrorOffset           ApiError = 65_024
	handlePaymentErrorOffset  ApiError = 65_280
	userErrorOffset           ApiError = 65_536
)

var apiErrorNames = map[ApiError]string{
	ErrNone:                           "None",
	ErrMissingArgument:                "MissingArgument",
	ErrInvalidArgument:                "InvalidArgument",
	ErrDeserialize:                    "Deserialize",
	ErrRead:                           "Read",
	ErrValueNotFound:                  "ValueNotFound",
	ErrContractNotFound:               "ContractNotFound",
	ErrGetKey:                         "GetKey",
	ErrUnexpectedKeyVariant:           "UnexpectedKeyVariant",
	ErrUnexpectedContractRefVariant:   "UnexpectedContractRefVariant",
	ErrInvalidPurseName:               "InvalidPurseName",
	ErrInvalidPurse:                   "InvalidPurse",
	ErrUpgradeContractAtURef:          "UpgradeContractAtURef",
	ErrTransfer:                       "Transfer",
	ErrNoAccessRights:                 "NoAccessRights",
	ErrCLTypeMismatch:                 "CLTypeMismatch",
	ErrEarlyEndOfStream:               "EarlyEndOfStream",
	ErrFormatting:                     "Formatting",
	ErrLeftOverBytes:                  "LeftOverBytes",
	ErrOutOfMemory:                    "OutOfMemory",
	ErrMaxKeysLimit:                   "MaxKeysLimit",
	ErrDuplicateKey:                   "DuplicateKey",
	ErrPermissionDenied:               "PermissionDenied",
	ErrMissingKey:                     "MissingKey",
	ErrThresholdViolation:             "ThresholdViolation",
	ErrKeyManagementThreshold:         "KeyManagementThreshold",
	ErrDeploymentThreshold:            "DeploymentThreshold",
	ErrInsufficientTotalWeight:        "InsufficientTotalWeight",
	ErrInvalidSystemContract:          "InvalidSystemContract",
	ErrPurseNotCreated:                "PurseNotCreated",
	ErrUnhandled:                      "Unhandled",
	ErrBufferTooSmall:                 "BufferTooSmall",
	ErrHostBufferEmpty:                "HostBufferEmpty",
	ErrHostBufferFull:                 "HostBufferFull",
	ErrAllocLayout:                    "AllocLayout",
	ErrDictionaryItemKeyExceedsLength: "DictionaryItemKeyExceedsLength",
	ErrInvalidDictionaryItemKey:       "InvalidDictionaryItemKey",
	ErrMissingSystemContractHash:      "MissingSystemContractHash",
	ErrExceededRecursionDepth:         "ExceededRecursionDepth",
	ErrNonRepresentableSerialization:  "NonRepresentableSerialization",
}

// User returns the ApiError for a contract-defined error code.
func User(code uint16) ApiError {
	return userErrorOffset + ApiError(code)
}

// UserCode returns the contract-defined code carried by e, if any.
func (e ApiError) UserCode() (uint16, bool) {
	if e < userErrorOffset || e > userErrorOffset+0xFFFF {
		return 0, false
	}
	return uint16(e - userErrorOffset), true //nolint:gosec // G115: range checked above
}

func (e ApiError) Error() string {
	if name, ok := apiErrorNames[e]; ok {
		return fmt.Sprintf("api error %d (%s)", uint32(e), name)
	}
	if code, ok := e.UserCode(); ok {
		return fmt.Sprintf("api error %d (User(%d))", uint32(e), code)
	}
	switch {
	case e >= handlePaymentErrorOffset:
		return fmt.Sprintf("api error %d (HandlePayment(%d))", uint32(e), uint32(e-handlePaymentErrorOffset))
	case e >= mintErrorOffset:
		return fmt.Sprintf("api error %d (Mint(%d))", uint32(e), uint32(e-mintErrorOffset))
	case e >= contractHeaderErrorOffset:
		return fmt.Sprintf("api error %d (ContractHeader(%d))", uint32(e), uint32(e-contractHeaderErrorOffset))
	case e >= auctionErrorOffset:
		return fmt.Sprintf("api error %d (AuctionError(%d))", uint32(e), uint32(e-auctionErrorOffset))
	}
	return fmt.Sprintf("api error %d", uint32(e))
}

// ToErrorDetail implements DetailedError.
func (e ApiError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message:    e.Error(),
		Type:       "api",
		Code:       fmt.Sprintf("%d", uint32(e)),
		IsNotFound: e == ErrMissingArgument || e == ErrMissingKey || e == ErrValueNotFound,
	}
}

// AsApiError maps any error produced by the emulation layer onto a status code.
// Errors with no dedicated code become ErrUnhandled.
func AsApiError(err error) ApiError {
	var apiErr ApiError
	switch {
	case stdErrors.As(err, &apiErr):
		return apiErr
	case stdErrors.Is(err, wireformat.ErrEarlyEndOfStream):
		return ErrEarlyEndOfStream
	case stdErrors.Is(err, wireformat.ErrFormatting):
		return ErrFormatting
	case stdErrors.Is(err, wireformat.ErrLeftOverBytes):
		return ErrLeftOverBytes
	case stdErrors.Is(err, wireformat.ErrOutOfMemory):
		return ErrOutOfMemory
	case stdErrors.Is(err, entities.ErrTypeMismatch):
		return ErrCLTypeMismatch
	default:
		return ErrUnhandled
	}
}

// StatusFromError translates a host function outcome into its wire status:
// zero for success, the ApiError code otherwise.
func StatusFromError(err error) int32 {
	if err == nil {
		return 0
	}
	return int32(AsApiError(err)) //nolint:gosec // G115: the ABI carries u32 codes in an i32
}

// ErrorFromStatus is the inverse of StatusFromError. Codes below the reserved
// ranges that are not published map to ErrUnhandled.
func ErrorFromStatus(status int32) error {
	if status == 0 {
		return nil
	}
	e := ApiError(uint32(status)) //nolint:gosec // G115: reinterpretation of the wire value
	if _, ok := apiErrorNames[e]; !ok && e < auctionErrorOffset {
		return ErrUnhandled
	}
	return e
}
