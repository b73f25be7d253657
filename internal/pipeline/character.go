package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"influencerd/internal/audit"
	"influencerd/internal/providers/image"
	"influencerd/internal/storage"
	appzip "influencerd/pkg/zip"
)

// CharacterParams is the validated input for the character pipeline.
type CharacterParams struct {
	Description string
	FullSet     bool
}

// GenerateCharacter produces character reference images. The face image is
// always generated; with FullSet the body and side views follow, plus a zip
// bundle of the whole set.
func (p *Pipelines) GenerateCharacter(ctx context.Context, jobID string, params CharacterParams) {
	p.run(ctx, jobID, "character", func() error {
		return p.generateCharacter(ctx, jobID, params)
	})
}

func (p *Pipelines) generateCharacter(ctx context.Context, jobID string, params CharacterParams) error {
	description := strings.TrimSpace(params.Description)
	if description == "" {
		return fmt.Errorf("character description is required")
	}

	p.registry.SetProgress(jobID, 30, "Generating character face image...")
	faceName := storage.ArtifactName(jobID, image.RoleFace, "jpg")
	if err := p.generateReferenceImage(ctx, image.FacePrompt(description), faceName); err != nil {
		return err
	}

	results := map[string]string{image.RoleFace: DownloadURL(faceName)}
	message := "Character face generated successfully"

	if params.FullSet {
		p.registry.SetProgress(jobID, 45, "Generating body and side reference images...")
		bodyName := storage.ArtifactName(jobID, image.RoleBody, "jpg")
		sideName := storage.ArtifactName(jobID, image.RoleSide, "jpg")

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return p.generateReferenceImage(gctx, image.BodyPrompt(description), bodyName)
		})
		g.Go(func() error {
			return p.generateReferenceImage(gctx, image.SidePrompt(description), sideName)
		})
		if err := g.Wait(); err != nil {
			return err
		}
		results[image.RoleBody] = DownloadURL(bodyName)
		results[image.RoleSide] = DownloadURL(sideName)

		p.registry.SetProgress(jobID, 85, "Bundling reference images...")
		bundleName, err := p.bundleReferences(ctx, jobID, []string{faceName, bodyName, sideName})
		if err != nil {
			return err
		}
		results["bundle"] = DownloadURL(bundleName)
		message = "Character reference set generated successfully"
	}

	p.registry.Complete(jobID, results[image.RoleFace], message, results)
	p.recordAudit(ctx, jobID, audit.Fields{
		"Job ID":      jobID,
		"Type":        "Character",
		"Description": description,
		"Status":      "Completed",
	})
	return nil
}

func (p *Pipelines) generateReferenceImage(ctx context.Context, prompt, filename string) error {
	assets, err := p.images.Generate(ctx, image.GenerateRequest{Prompt: prompt, AspectRatio: "9:16"})
	if err != nil {
		return fmt.Errorf("generate reference image: %w", err)
	}
	if len(assets) == 0 {
		return fmt.Errorf("failed to generate reference image: provider returned no images")
	}
	if _, err := p.store.Write(ctx, outputKey(filename), assets[0].Data); err != nil {
		return err
	}
	return nil
}

func (p *Pipelines) bundleReferences(ctx context.Context, jobID string, filenames []string) (string, error) {
	assets := make([]appzip.Asset, 0, len(filenames))
	for _, name := range filenames {
		data, err := p.store.Read(ctx, outputKey(name))
		if err != nil {
			return "", fmt.Errorf("bundle reference %s: %w", name, err)
		}
		assets = append(assets, appzip.Asset{Filename: name, MIME: "image/jpeg", Data: data})
	}
	archive, err := appzip.ArchiveAssets(assets)
	if err != nil {
		return "", fmt.Errorf("bundle references: %w", err)
	}
	bundleName := storage.ArtifactName(jobID, "character", "zip")
	if _, err := p.store.Write(ctx, outputKey(bundleName), archive); err != nil {
		return "", err
	}
	return bundleName, nil
}
