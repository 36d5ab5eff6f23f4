package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/salonora/salonora-backend/api/responses"
	"github.com/salonora/salonora-backend/api/validators"
	"github.com/salonora/salonora-backend/internal/blog"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/logger"
)

const maxBlogPageSize = 50

func parseBlogListInput(r *http.Request) (blog.ListPostsInput, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxBlogPageSize)
	if err != nil {
		return blog.ListPostsInput{}, err
	}
	return blog.ListPostsInput{
		CategorySlug: strings.TrimSpace(r.URL.Query().Get("category")),
		Tag:          strings.TrimSpace(r.URL.Query().Get("tag")),
		Limit:        limit,
		Cursor:       strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

// PublicBlogPosts lists published posts for the public site.
func PublicBlogPosts(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		input, err := parseBlogListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListPublished(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PublicBlogPostBySlug resolves one published post.
func PublicBlogPostBySlug(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		post, err := svc.GetPublishedBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// AdminBlogPosts lists every post regardless of status for the back office.
func AdminBlogPosts(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		input, err := parseBlogListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListAll(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminBlogPostCreate drafts a new post.
func AdminBlogPostCreate(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		var body blog.CreatePostInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.CreatePost(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, post)
	}
}

// AdminBlogPostUpdate mutates a draft or published post.
func AdminBlogPostUpdate(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		postID, err := pathUUID(r, "postId", "post id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body blog.UpdatePostInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.UpdatePost(r.Context(), postID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// AdminBlogPostPublish makes a draft visible on the public site.
func AdminBlogPostPublish(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		postID, err := pathUUID(r, "postId", "post id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Publish(r.Context(), postID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// AdminBlogPostUnpublish pulls a post back to draft.
func AdminBlogPostUnpublish(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		postID, err := pathUUID(r, "postId", "post id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Unpublish(r.Context(), postID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// AdminBlogAuthorCreate registers a byline for the back office.
func AdminBlogAuthorCreate(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		var body blog.CreateAuthorInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		author, err := svc.CreateAuthor(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, author)
	}
}

// AdminBlogAuthors lists every byline.
func AdminBlogAuthors(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		authors, err := svc.ListAuthors(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, authors)
	}
}

// AdminBlogCategoryCreate registers a category for the back office.
func AdminBlogCategoryCreate(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		var body blog.CreateCategoryInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// BlogCategories lists categories for both the public site and the back office.
func BlogCategories(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}
