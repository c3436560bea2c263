package handlers

import (
	"github.com/apparelops/lot-tracker/internal/analytics"
	"github.com/apparelops/lot-tracker/internal/labels"
	"github.com/apparelops/lot-tracker/internal/repo"
	"github.com/apparelops/lot-tracker/internal/scan"
)

var (
	inventoryRepo *repo.InventoryRepository
	userRepo      repo.UserRepository
	scanManager   *scan.Manager
	sheetWriter   *labels.SheetWriter
	codeRenderer  labels.CodeRenderer
	trendSource   analytics.TrendSource
)

func SetInventoryRepo(r *repo.InventoryRepository) {
	inventoryRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetScanManager(m *scan.Manager) {
	scanManager = m
}

func SetCodeRenderer(r labels.CodeRenderer) {
	codeRenderer = r
	sheetWriter = labels.NewSheetWriter(r)
}

func SetTrendSource(ts analytics.TrendSource) {
	trendSource = ts
}
