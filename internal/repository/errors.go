package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	//一意制約違反（email・店舗名など）
	ErrDuplicate = errors.New("duplicate")

	//条件付き更新で0件（他のリクエストが先に更新した）
	ErrConflict = errors.New("conflict")
)
