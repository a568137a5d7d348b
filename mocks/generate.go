package mocks

//go:generate mockgen -destination=./mock_broker.go -package=mocks github.com/nkaradzhov/lean/broker Broker,OrderPlacer
