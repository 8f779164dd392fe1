package mocks

//go:generate mockery --name FactStore --srcpkg github.com/salesdash/explore/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
