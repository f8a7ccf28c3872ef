package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/config"
	"compass/internal/embedding/tfidf"
	"compass/internal/errs"
)

const bootstrapCorpus = `Savings Account
Earn competitive interest on deposits.
--------------------------------
Credit Card
Cashback rewards on everyday spending.
--------------------------------
Mortgage
Fixed-rate loans for home buyers.
`

const bootstrapDataset = `customer_id,age,income,credit_score,existing_products,employment_status,debt_to_income_ratio,engagement_score,product_count
1,30,60000,700,Checking Account,Employed,0.3,20,1
125,45,95000,760,"Savings Account,Credit Card",Self-Employed,0.15,33,2
`

func bootstrapConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	kbPath := filepath.Join(dir, "products.txt")
	csvPath := filepath.Join(dir, "processed_customer_data.csv")
	require.NoError(t, os.WriteFile(kbPath, []byte(bootstrapCorpus), 0o644))
	require.NoError(t, os.WriteFile(csvPath, []byte(bootstrapDataset), 0o644))

	cfg, err := config.Load(filepath.Join(dir, "does-not-exist.yaml"))
	require.NoError(t, err)
	cfg.KnowledgeBase.Path = kbPath
	cfg.Profiles.Path = csvPath
	cfg.Index.Path = filepath.Join(dir, "compass_index.bin")
	return cfg
}

func TestBootstrap_BuildsAndPersistsIndex(t *testing.T) {
	cfg := bootstrapConfig(t)
	boot := NewBootstrap(cfg, tfidf.NewEmbedder(), &stubGenerator{reply: "ok"})

	res, err := boot.Resources(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Documents, 3)
	assert.Equal(t, 3, res.Index.Len())
	assert.Equal(t, 2, res.Profiles.Len())

	_, err = os.Stat(cfg.Index.Path)
	assert.NoError(t, err, "index artifact must be persisted after a fresh build")

	result, err := res.Engine.Recommend(context.Background(), 125)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
	assert.Len(t, result.Retrieved, 3)
}

func TestBootstrap_LoadedArtifactAnswersIdentically(t *testing.T) {
	cfg := bootstrapConfig(t)

	first := NewBootstrap(cfg, tfidf.NewEmbedder(), &stubGenerator{reply: "ok"})
	res1, err := first.Resources(context.Background())
	require.NoError(t, err)

	// second process lifetime: artifact exists, must be loaded not rebuilt
	second := NewBootstrap(cfg, tfidf.NewEmbedder(), &stubGenerator{reply: "ok"})
	res2, err := second.Resources(context.Background())
	require.NoError(t, err)

	query := make([]float32, res1.Index.Dimensions())
	query[0] = 1
	want, err := res1.Index.Search(query, 3)
	require.NoError(t, err)
	got, err := res2.Index.Search(query, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBootstrap_RejectsMisalignedArtifact(t *testing.T) {
	cfg := bootstrapConfig(t)
	_, err := NewBootstrap(cfg, tfidf.NewEmbedder(), &stubGenerator{}).Resources(context.Background())
	require.NoError(t, err)

	// regenerate the corpus without regenerating the index artifact
	grown := bootstrapCorpus + "--------------------------------\nAuto Loan\nFinancing for new vehicles.\n"
	require.NoError(t, os.WriteFile(cfg.KnowledgeBase.Path, []byte(grown), 0o644))

	_, err = NewBootstrap(cfg, tfidf.NewEmbedder(), &stubGenerator{}).Resources(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.Contains(t, err.Error(), "delete the artifact to rebuild")
}

func TestBootstrap_MissingKnowledgeBase(t *testing.T) {
	cfg := bootstrapConfig(t)
	cfg.KnowledgeBase.Path = filepath.Join(t.TempDir(), "nope.txt")

	_, err := NewBootstrap(cfg, tfidf.NewEmbedder(), &stubGenerator{}).Resources(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
}

func TestBootstrap_InitializesOnce(t *testing.T) {
	cfg := bootstrapConfig(t)
	boot := NewBootstrap(cfg, tfidf.NewEmbedder(), &stubGenerator{reply: "ok"})

	var wg sync.WaitGroup
	results := make([]*Resources, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := boot.Resources(context.Background())
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	for _, res := range results[1:] {
		assert.Same(t, results[0], res, "all callers must share one initialized handle")
	}
}
