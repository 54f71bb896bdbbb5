package llm

import (
	"context"
	"fmt"

	"github.com/Morwran/yagpt"
)

type YandexClient struct {
	ya       yagpt.YaGPTFace
	iamToken string
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	if oauthToken == "" || folderID == "" {
		return nil, fmt.Errorf("%w: yandex oauth token or folder id is not set", ErrUnavailable)
	}
	// Exchange the OAuth token for an IAM token
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to init yandex iam: %v", ErrUnavailable, err)
	}
	resp, err := iam.Create()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create iam token: %v", ErrUnavailable, err)
	}

	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to init yagpt: %v", ErrUnavailable, err)
	}

	return &YandexClient{
		ya:       ya,
		iamToken: resp.IamToken,
	}, nil
}

func (c *YandexClient) Invoke(ctx context.Context, prompt string) (Response, error) {
	messages := []yagpt.Message{{Role: RoleUser, Content: prompt}}
	resp, err := c.ya.CompletionWithCtx(ctx, c.iamToken, messages)
	if err != nil {
		return Response{}, fmt.Errorf("%w: yagpt completion failed: %v", ErrUnavailable, err)
	}
	if resp == nil || len(resp.Alternatives) == 0 || resp.Alternatives[0].Message.Content == "" {
		return Response{}, ErrEmptyResponse
	}
	return Response{Content: resp.Alternatives[0].Message.Content, Model: yagpt.YaModelLite}, nil
}
