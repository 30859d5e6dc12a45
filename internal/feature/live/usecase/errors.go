package usecase

import "errors"

var (
	// ErrUnknownSymbol は追跡していない銘柄を選択した場合のエラーです。
	ErrUnknownSymbol = errors.New("unknown live symbol")
	// ErrInvalidRange はライブ画面で選択できない期間を指定した場合のエラーです。
	ErrInvalidRange = errors.New("invalid live range")
)
