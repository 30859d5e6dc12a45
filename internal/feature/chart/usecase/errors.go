package usecase

import "errors"

var (
	// ErrMissingSymbol は銘柄コードが指定されていない場合のエラーです。
	ErrMissingSymbol = errors.New("missing symbol parameter")
	// ErrInvalidRange は未知の期間が指定された場合のエラーです。
	ErrInvalidRange = errors.New("invalid range parameter")
	// ErrNoData は銘柄が存在しないか、データが取得できなかった場合のエラーです。
	ErrNoData = errors.New("invalid symbol or no data available")
)
