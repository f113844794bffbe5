// Package errors provides structured, code-carrying errors shared by the restaurant services.
package errors

// Code is a machine-readable error code surfaced to API callers.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Order errors
	CodeOrderCustomerNameRequired     Code = "ORDER_CUSTOMER_NAME_REQUIRED"
	CodeOrderCustomerPhoneRequired    Code = "ORDER_CUSTOMER_PHONE_REQUIRED"
	CodeOrderAddressRequired          Code = "ORDER_ADDRESS_REQUIRED"
	CodeOrderInvalidDeliveryType      Code = "ORDER_INVALID_DELIVERY_TYPE"
	CodeOrderInvalidPaymentMethod     Code = "ORDER_INVALID_PAYMENT_METHOD"
	CodeOrderItemsRequired            Code = "ORDER_ITEMS_REQUIRED"
	CodeOrderInvalidItem              Code = "ORDER_INVALID_ITEM"
	CodeOrderTotalMismatch            Code = "ORDER_TOTAL_MISMATCH"
	CodeOrderInvalidStatus            Code = "ORDER_INVALID_STATUS"
	CodeOrderInvalidPaymentStatus     Code = "ORDER_INVALID_PAYMENT_STATUS"
	CodeOrderInvalidID                Code = "ORDER_INVALID_ID"
	CodeOrderInvalidFilter            Code = "ORDER_INVALID_FILTER"
	CodeOrderNoChanges                Code = "ORDER_NO_CHANGES"
	CodeOrderInvalidStatusTransition  Code = "ORDER_INVALID_STATUS_TRANSITION"
	CodeOrderVersionConflict          Code = "ORDER_VERSION_CONFLICT"
	CodeOrderNotFound                 Code = "ORDER_NOT_FOUND"
	CodeOrderPaymentSessionNotFound   Code = "ORDER_PAYMENT_SESSION_NOT_FOUND"
	CodeOrderCustomerPhoneQueryNeeded Code = "ORDER_PHONE_QUERY_REQUIRED"

	// Reservation errors
	CodeReservationNameRequired    Code = "RESERVATION_NAME_REQUIRED"
	CodeReservationPhoneRequired   Code = "RESERVATION_PHONE_REQUIRED"
	CodeReservationInvalidDate     Code = "RESERVATION_INVALID_DATE"
	CodeReservationInvalidTimeSlot Code = "RESERVATION_INVALID_TIME_SLOT"
	CodeReservationInvalidParty    Code = "RESERVATION_INVALID_PARTY_SIZE"
	CodeReservationInvalidStatus   Code = "RESERVATION_INVALID_STATUS"
	CodeReservationInvalidID       Code = "RESERVATION_INVALID_ID"
	CodeReservationSlotFull        Code = "RESERVATION_SLOT_FULL"
	CodeReservationNotFound        Code = "RESERVATION_NOT_FOUND"

	// Menu errors
	CodeProductNameRequired  Code = "PRODUCT_NAME_REQUIRED"
	CodeProductInvalidPrice  Code = "PRODUCT_INVALID_PRICE"
	CodeProductInvalidID     Code = "PRODUCT_INVALID_ID"
	CodeProductNotFound      Code = "PRODUCT_NOT_FOUND"
	CodeCategoryNotFound     Code = "CATEGORY_NOT_FOUND"
	CodeCategoryInvalid      Code = "CATEGORY_INVALID"
	CodeProductNameConflict  Code = "PRODUCT_NAME_CONFLICT"
	CodeMalformedRequestBody Code = "MALFORMED_REQUEST_BODY"

	// Payment webhook errors
	CodePaymentSignatureMissing Code = "PAYMENT_SIGNATURE_MISSING"
	CodePaymentSignatureInvalid Code = "PAYMENT_SIGNATURE_INVALID"
	CodePaymentPayloadInvalid   Code = "PAYMENT_PAYLOAD_INVALID"

	// Storage errors
	CodePersistence Code = "PERSISTENCE_FAILURE"
)

// Kind classifies a code into the error taxonomy used for response mapping.
type Kind string

const (
	KindUnknown          Kind = "unknown"
	KindValidation       Kind = "validation"
	KindNotFound         Kind = "not_found"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindConflict         Kind = "conflict"
	KindPersistence      Kind = "persistence"
)

// Kind maps one code to its taxonomy bucket.
func (c Code) Kind() Kind {
	switch c {
	case CodeOrderCustomerNameRequired,
		CodeOrderCustomerPhoneRequired,
		CodeOrderAddressRequired,
		CodeOrderInvalidDeliveryType,
		CodeOrderInvalidPaymentMethod,
		CodeOrderItemsRequired,
		CodeOrderInvalidItem,
		CodeOrderTotalMismatch,
		CodeOrderInvalidStatus,
		CodeOrderInvalidPaymentStatus,
		CodeOrderInvalidID,
		CodeOrderInvalidFilter,
		CodeOrderNoChanges,
		CodeOrderCustomerPhoneQueryNeeded,
		CodeReservationNameRequired,
		CodeReservationPhoneRequired,
		CodeReservationInvalidDate,
		CodeReservationInvalidTimeSlot,
		CodeReservationInvalidParty,
		CodeReservationInvalidStatus,
		CodeReservationInvalidID,
		CodeProductNameRequired,
		CodeProductInvalidPrice,
		CodeProductInvalidID,
		CodeCategoryInvalid,
		CodeMalformedRequestBody,
		CodePaymentSignatureMissing,
		CodePaymentSignatureInvalid,
		CodePaymentPayloadInvalid:
		return KindValidation

	case CodeOrderNotFound,
		CodeOrderPaymentSessionNotFound,
		CodeReservationNotFound,
		CodeProductNotFound,
		CodeCategoryNotFound:
		return KindNotFound

	case CodeReservationSlotFull:
		return KindCapacityExceeded

	case CodeOrderInvalidStatusTransition,
		CodeOrderVersionConflict,
		CodeProductNameConflict:
		return KindConflict

	case CodePersistence:
		return KindPersistence

	default:
		return KindUnknown
	}
}
