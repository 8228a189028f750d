//go:generate mockgen -source=../catalog.go          -destination=./mock_catalog.go          -package=mocks
//go:generate mockgen -source=../document.go         -destination=./mock_document.go         -package=mocks
//go:generate mockgen -source=../delivery.go         -destination=./mock_delivery.go         -package=mocks
//go:generate mockgen -source=../order_service.go    -destination=./mock_order_service.go    -package=mocks
//go:generate mockgen -source=../validator.go        -destination=./mock_validator.go        -package=mocks
//go:generate mockgen -source=../logger.go           -destination=./mock_logger.go           -package=mocks
//go:generate mockgen -source=../message_consumer.go -destination=./mock_message_consumer.go -package=mocks

package mocks
