package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/team --output domain/team --outpkg teammock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name HistoryRepository --dir ../domain/match --output domain/match --outpkg matchmock --filename history_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name CheckpointRepository --dir ../domain/match --output domain/match --outpkg matchmock --filename checkpoint_repository_mock.go
