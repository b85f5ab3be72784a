package usecase

import (
	"github.com/snapnote-lab/snapnote/pkg/domain/interfaces"
	"github.com/snapnote-lab/snapnote/pkg/service/notechat"
	"github.com/snapnote-lab/snapnote/pkg/service/reconcile"
	"github.com/snapnote-lab/snapnote/pkg/service/vision"
)

type UseCases struct {
	repo       interfaces.Repository
	images     interfaces.ImageStore
	reconciler *reconcile.Service
	chat       *notechat.Service
	analyzer   vision.Analyzer
}

type Option func(*UseCases)

func WithImageStore(images interfaces.ImageStore) Option {
	return func(uc *UseCases) {
		uc.images = images
	}
}

func WithReconciler(svc *reconcile.Service) Option {
	return func(uc *UseCases) {
		uc.reconciler = svc
	}
}

func WithNoteChat(svc *notechat.Service) Option {
	return func(uc *UseCases) {
		uc.chat = svc
	}
}

func WithAnalyzer(analyzer vision.Analyzer) Option {
	return func(uc *UseCases) {
		uc.analyzer = analyzer
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
