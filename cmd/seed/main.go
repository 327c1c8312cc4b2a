package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/agriassist/agriassist-api/config"
	"github.com/agriassist/agriassist-api/internal/application"
	"github.com/agriassist/agriassist-api/internal/domain/entity"
	pginfra "github.com/agriassist/agriassist-api/internal/infrastructure/postgres"
	"github.com/agriassist/agriassist-api/pkg/helpers"
)

// catalog is the starter marketplace inventory.
var catalog = []entity.Product{
	{ID: "seed-wheat-hd2967", Name: "Wheat Seeds HD-2967", Price: 850, Category: "seeds", Description: "High yielding rust resistant wheat variety for irrigated timely sown conditions. 10 kg bag."},
	{ID: "seed-paddy-pusa1121", Name: "Basmati Paddy Pusa 1121", Price: 1200, Category: "seeds", Description: "Long grain aromatic basmati paddy seed. 10 kg bag."},
	{ID: "seed-cotton-bt", Name: "Bt Cotton Hybrid Seeds", Price: 760, Category: "seeds", Description: "Bollworm tolerant hybrid cotton. 450 g packet."},
	{ID: "seed-tomato-hybrid", Name: "Hybrid Tomato Seeds", Price: 320, Category: "seeds", Description: "Heat tolerant determinate tomato hybrid. 10 g packet."},
	{ID: "fert-urea-45", Name: "Urea 46% N", Price: 267, Category: "fertilizers", Description: "Neem coated urea. 45 kg bag."},
	{ID: "fert-dap-50", Name: "DAP 18:46:0", Price: 1350, Category: "fertilizers", Description: "Di-ammonium phosphate for basal application. 50 kg bag."},
	{ID: "fert-npk-191919", Name: "Water Soluble NPK 19:19:19", Price: 180, Category: "fertilizers", Description: "Balanced foliar and fertigation grade NPK. 1 kg pack."},
	{ID: "fert-vermicompost", Name: "Organic Vermicompost", Price: 450, Category: "fertilizers", Description: "Earthworm processed organic manure. 40 kg bag."},
	{ID: "pest-neem-oil", Name: "Neem Oil 1500 ppm", Price: 390, Category: "pesticides", Description: "Botanical insecticide for sucking pests. 1 litre."},
	{ID: "pest-imidacloprid", Name: "Imidacloprid 17.8% SL", Price: 540, Category: "pesticides", Description: "Systemic insecticide for aphids, jassids and whitefly. 250 ml."},
	{ID: "pest-mancozeb", Name: "Mancozeb 75% WP", Price: 310, Category: "pesticides", Description: "Contact fungicide for blights and leaf spots. 500 g."},
	{ID: "tool-sprayer-16l", Name: "Knapsack Sprayer 16 L", Price: 1850, Category: "tools", Description: "Manual backpack sprayer with brass nozzle."},
	{ID: "tool-drip-kit", Name: "Drip Irrigation Kit (1 acre)", Price: 14500, Category: "tools", Description: "Laterals, drippers, filter and fittings for one acre."},
	{ID: "tool-soil-kit", Name: "Soil Testing Kit", Price: 2200, Category: "tools", Description: "Field kit for pH, nitrogen, phosphorus and potassium."},
	{ID: "tool-sickle", Name: "Serrated Harvest Sickle", Price: 150, Category: "tools", Description: "Carbon steel sickle with wooden handle."},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	svc := application.NewCatalogService(pginfra.NewProductRepository(pool), nil, cfg.ESProductsIndex, logger)
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; seeding postgres only")
		} else {
			svc.ES = es
			if err := svc.EnsureIndex(ctx); err != nil {
				logger.WithError(err).Warn("es index setup failed; seeding postgres only")
				svc.ES = nil
			}
		}
	}

	n, err := svc.Seed(ctx, catalog)
	if err != nil {
		log.Fatalf("seed failed after %d products: %v", n, err)
	}
	helpers.LogInfo(logger, "catalog seeded", logrus.Fields{"products": n, "indexed": svc.ES != nil})
}
