package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"Yatube/internal/api/middleware"
	"Yatube/internal/core/comments"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
)

// PostDetailPageData holds data for a single post with its comments
type PostDetailPageData struct {
	BasePageData
	Post            *posts.PostView
	Comments        []*comments.CommentView
	AuthorPostCount int
	CanEdit         bool
}

// PostFormPageData holds data for the create and edit forms
type PostFormPageData struct {
	BasePageData
	Errors  map[string]string
	Text    string
	Image   string
	Groups  []*groups.Group
	PostID  int64
	GroupID int64
	IsEdit  bool
}

// postForm is the parsed body of the post form
type postForm struct {
	GroupID *int64
	Text    string
	Image   string
}

// PostDetailHandler renders one post
// GET /posts/{id}/
func (h *Handlers) PostDetailHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := postIDParam(r)
	if !ok {
		h.NotFoundHandler(w, r)
		return
	}

	post, err := h.postService.GetPost(ctx, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	count, err := h.postService.CountByAuthor(ctx, post.Author.ID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	list, err := h.commentService.ListForPost(ctx, post.ID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	data := PostDetailPageData{
		BasePageData:    h.base(r, "Пост "+post.Short()),
		Post:            post,
		Comments:        list,
		AuthorPostCount: count,
	}
	data.CanEdit = data.User != nil && data.User.ID == post.Author.ID

	h.render(w, r, "post_detail.html", data)
}

// PostCreateHandler shows and processes the new post form
// GET|POST /create/
func (h *Handlers) PostCreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(r)

	if r.Method != http.MethodPost {
		h.renderPostForm(w, r, PostFormPageData{})
		return
	}

	form, errs := parsePostForm(r)
	if len(errs) > 0 {
		h.renderPostForm(w, r, PostFormPageData{Errors: errs, Text: form.Text, Image: form.Image})
		return
	}

	_, err := h.postService.CreatePost(ctx, posts.CreatePostRequest{
		AuthorID: user.ID,
		GroupID:  form.GroupID,
		Text:     form.Text,
		Image:    form.Image,
	})
	if err != nil {
		if errs := postFormErrors(err); errs != nil {
			h.renderPostForm(w, r, form.pageData(errs))
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
}

// PostEditHandler shows and processes the edit form.
// Anyone but the author is sent back to the post.
// GET|POST /posts/{id}/edit/
func (h *Handlers) PostEditHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(r)

	id, ok := postIDParam(r)
	if !ok {
		h.NotFoundHandler(w, r)
		return
	}

	post, err := h.postService.GetPost(ctx, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if post.Author.ID != user.ID {
		http.Redirect(w, r, postURL(post.ID), http.StatusFound)
		return
	}

	if r.Method != http.MethodPost {
		data := PostFormPageData{
			IsEdit: true,
			PostID: post.ID,
			Text:   post.Text,
			Image:  post.Image,
		}
		if post.Group != nil {
			data.GroupID = post.Group.ID
		}
		h.renderPostForm(w, r, data)
		return
	}

	form, errs := parsePostForm(r)
	if len(errs) > 0 {
		data := PostFormPageData{Errors: errs, Text: form.Text, Image: form.Image, IsEdit: true, PostID: post.ID}
		h.renderPostForm(w, r, data)
		return
	}

	_, err = h.postService.UpdatePost(ctx, posts.UpdatePostRequest{
		PostID:  post.ID,
		UserID:  user.ID,
		GroupID: form.GroupID,
		Text:    form.Text,
		Image:   form.Image,
	})
	if err != nil {
		if errors.Is(err, posts.ErrNotAuthor) {
			http.Redirect(w, r, postURL(post.ID), http.StatusFound)
			return
		}
		if errs := postFormErrors(err); errs != nil {
			data := form.pageData(errs)
			data.IsEdit = true
			data.PostID = post.ID
			h.renderPostForm(w, r, data)
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, postURL(post.ID), http.StatusFound)
}

// PostDeleteHandler deletes a post owned by the current user
// POST /posts/{id}/delete/
func (h *Handlers) PostDeleteHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := postIDParam(r)
	if !ok {
		h.NotFoundHandler(w, r)
		return
	}

	if err := h.postService.DeletePost(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, posts.ErrNotAuthor) {
			http.Redirect(w, r, postURL(id), http.StatusFound)
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
}

// AddCommentHandler stores a comment and returns to the post.
// Invalid comments are dropped silently, like an unbound form.
// POST /posts/{id}/comment/
func (h *Handlers) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := postIDParam(r)
	if !ok {
		h.NotFoundHandler(w, r)
		return
	}

	_, err := h.commentService.AddComment(r.Context(), comments.AddCommentRequest{
		PostID:   id,
		AuthorID: user.ID,
		Text:     r.PostFormValue("text"),
	})
	if err != nil && !comments.IsValidationError(err) {
		h.handleServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, postURL(id), http.StatusFound)
}

func (h *Handlers) renderPostForm(w http.ResponseWriter, r *http.Request, data PostFormPageData) {
	list, err := h.groupService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	title := "Новая запись"
	if data.IsEdit {
		title = "Редактировать запись"
	}
	data.BasePageData = h.base(r, title)
	data.Groups = list

	h.render(w, r, "post_create.html", data)
}

func parsePostForm(r *http.Request) (postForm, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return postForm{}, map[string]string{"form": "could not read the form"}
	}

	form := postForm{
		Text:  r.PostForm.Get("text"),
		Image: strings.TrimSpace(r.PostForm.Get("image")),
	}

	if raw := strings.TrimSpace(r.PostForm.Get("group")); raw != "" {
		groupID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || groupID <= 0 {
			return form, map[string]string{"group": "select a valid group"}
		}
		form.GroupID = &groupID
	}

	return form, nil
}

func (f postForm) pageData(errs map[string]string) PostFormPageData {
	data := PostFormPageData{Errors: errs, Text: f.Text, Image: f.Image}
	if f.GroupID != nil {
		data.GroupID = *f.GroupID
	}
	return data
}

// postFormErrors turns a validation error into per-field messages, or nil for other errors
func postFormErrors(err error) map[string]string {
	var valErr *posts.ValidationError
	if !errors.As(err, &valErr) {
		return nil
	}
	return map[string]string{valErr.Field: valErr.Message}
}
