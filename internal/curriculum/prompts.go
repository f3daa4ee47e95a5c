package curriculum

import (
	"fmt"
	"strings"
)

const curriculumSystemPrompt = "당신은 경력 전환과 직업 교육을 돕는 멘토입니다. " +
	"제공된 경력 사실만 근거로 삼고, 추측한 내용은 추측임을 밝히세요."

const jsonInstruction = `반드시 아래 형태의 JSON 객체만 출력하세요. 설명 문장, 마크다운 코드 블록 없이 JSON만 출력합니다.
{"goal": "...", "weeks": [{"week": 1, "title": "...", "topics": ["..."]}]}`

// buildCurriculumPrompt renders the career facts into the weekly-plan prompt.
func buildCurriculumPrompt(facts *Facts, req Request) string {
	var b strings.Builder

	weeks := req.Weeks
	if weeks <= 0 {
		weeks = 4
	}
	fmt.Fprintf(&b, "%d주 학습 커리큘럼을 작성해 주세요.\n", weeks)
	if goal := strings.TrimSpace(req.Goal); goal != "" {
		fmt.Fprintf(&b, "학습 목표: %s\n", goal)
	}

	if len(facts.Companies) > 0 {
		if facts.Dependent {
			b.WriteString("\n[건강보험 기록상 사업장 - 피부양자 자격이므로 가족의 직장일 수 있음]\n")
		} else {
			b.WriteString("\n[경력 사업장]\n")
		}
		for _, c := range facts.Companies {
			fmt.Fprintf(&b, "- %s (등장 %d회)\n", c.Name, c.Frequency)
		}
	}

	if len(facts.SubjectLines) > 0 {
		b.WriteString("\n[보유 자격증 및 시험 과목]\n")
		for _, line := range facts.SubjectLines {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	b.WriteString("\n주차별로 학습 주제와 실습 과제를 제시해 주세요.")
	return b.String()
}
