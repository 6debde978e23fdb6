package azuredevops

// WorkItemField is the reference name of a work item field
type WorkItemField string

// Built-in work item fields
const (
	// The build in which the bug was found
	FieldFoundIn WorkItemField = "Microsoft.VSTS.Build.FoundIn"
	// The build in which the bug was fixed
	FieldIntegrationBuild WorkItemField = "Microsoft.VSTS.Build.IntegrationBuild"
	FieldActualAttendee1  WorkItemField = "Microsoft.VSTS.CMMI.ActualAttendee1"
	FieldActualAttendee2  WorkItemField = "Microsoft.VSTS.CMMI.ActualAttendee2"
	FieldActualAttendee3  WorkItemField = "Microsoft.VSTS.CMMI.ActualAttendee3"
	FieldActualAttendee4  WorkItemField = "Microsoft.VSTS.CMMI.ActualAttendee4"
	FieldActualAttendee5  WorkItemField = "Microsoft.VSTS.CMMI.ActualAttendee5"
	FieldActualAttendee6  WorkItemField = "Microsoft.VSTS.CMMI.ActualAttendee6"
	FieldActualAttendee7  WorkItemField = "Microsoft.VSTS.CMMI.ActualAttendee7"
	FieldActualAttendee8  WorkItemField = "Microsoft.VSTS.CMMI.ActualAttendee8"
	// The analysis of the issue including root cause identification and potential solutions
	FieldAnalysis WorkItemField = "Microsoft.VSTS.CMMI.Analysis"
	FieldBlocked  WorkItemField = "Microsoft.VSTS.CMMI.Blocked"
	// The person who called the review
	FieldCalledBy WorkItemField = "Microsoft.VSTS.CMMI.CalledBy"
	// The date and time the review was called
	FieldCalledDate WorkItemField = "Microsoft.VSTS.CMMI.CalledDate"
	// Comments for the review
	FieldComments WorkItemField = "Microsoft.VSTS.CMMI.Comments"
	// Has the requirement been committed?
	FieldCommitted                        WorkItemField = "Microsoft.VSTS.CMMI.Committed"
	FieldContingencyPlan                  WorkItemField = "Microsoft.VSTS.CMMI.ContingencyPlan"
	FieldCorrectiveActionActualResolution WorkItemField = "Microsoft.VSTS.CMMI.CorrectiveActionActualResolution"
	FieldCorrectiveActionPlan             WorkItemField = "Microsoft.VSTS.CMMI.CorrectiveActionPlan"
	// Used to flag an issue as critical
	FieldEscalate                      WorkItemField = "Microsoft.VSTS.CMMI.Escalate"
	FieldFoundInEnvironment            WorkItemField = "Microsoft.VSTS.CMMI.FoundInEnvironment"
	FieldHowFound                      WorkItemField = "Microsoft.VSTS.CMMI.HowFound"
	FieldImpactAssessmentHTML          WorkItemField = "Microsoft.VSTS.CMMI.ImpactAssessmentHtml"
	FieldImpactOnArchitecture          WorkItemField = "Microsoft.VSTS.CMMI.ImpactOnArchitecture"
	FieldImpactOnDevelopment           WorkItemField = "Microsoft.VSTS.CMMI.ImpactOnDevelopment"
	FieldImpactOnTechnicalPublications WorkItemField = "Microsoft.VSTS.CMMI.ImpactOnTechnicalPublications"
	FieldImpactOnTest                  WorkItemField = "Microsoft.VSTS.CMMI.ImpactOnTest"
	FieldImpactOnUserExperience        WorkItemField = "Microsoft.VSTS.CMMI.ImpactOnUserExperience"
	FieldJustification                 WorkItemField = "Microsoft.VSTS.CMMI.Justification"
	// The type of the review meeting
	FieldMeetingType WorkItemField = "Microsoft.VSTS.CMMI.MeetingType"
	// The minutes of the review meeting
	FieldMinutes        WorkItemField = "Microsoft.VSTS.CMMI.Minutes"
	FieldMitigationPlan WorkItemField = "Microsoft.VSTS.CMMI.MitigationPlan"
	// The mitigation triggers
	FieldMitigationTriggers WorkItemField = "Microsoft.VSTS.CMMI.MitigationTriggers"
	FieldOptionalAttendee1  WorkItemField = "Microsoft.VSTS.CMMI.OptionalAttendee1"
	FieldOptionalAttendee2  WorkItemField = "Microsoft.VSTS.CMMI.OptionalAttendee2"
	FieldOptionalAttendee3  WorkItemField = "Microsoft.VSTS.CMMI.OptionalAttendee3"
	FieldOptionalAttendee4  WorkItemField = "Microsoft.VSTS.CMMI.OptionalAttendee4"
	FieldOptionalAttendee5  WorkItemField = "Microsoft.VSTS.CMMI.OptionalAttendee5"
	FieldOptionalAttendee6  WorkItemField = "Microsoft.VSTS.CMMI.OptionalAttendee6"
	FieldOptionalAttendee7  WorkItemField = "Microsoft.VSTS.CMMI.OptionalAttendee7"
	FieldOptionalAttendee8  WorkItemField = "Microsoft.VSTS.CMMI.OptionalAttendee8"
	// A percentage indicating the estimated likelihood that the risk will occur
	FieldProbability WorkItemField = "Microsoft.VSTS.CMMI.Probability"
	FieldProposedFix WorkItemField = "Microsoft.VSTS.CMMI.ProposedFix"
	// The purpose of the review
	FieldPurpose                WorkItemField = "Microsoft.VSTS.CMMI.Purpose"
	FieldRequiredAttendee1      WorkItemField = "Microsoft.VSTS.CMMI.RequiredAttendee1"
	FieldRequiredAttendee2      WorkItemField = "Microsoft.VSTS.CMMI.RequiredAttendee2"
	FieldRequiredAttendee3      WorkItemField = "Microsoft.VSTS.CMMI.RequiredAttendee3"
	FieldRequiredAttendee4      WorkItemField = "Microsoft.VSTS.CMMI.RequiredAttendee4"
	FieldRequiredAttendee5      WorkItemField = "Microsoft.VSTS.CMMI.RequiredAttendee5"
	FieldRequiredAttendee6      WorkItemField = "Microsoft.VSTS.CMMI.RequiredAttendee6"
	FieldRequiredAttendee7      WorkItemField = "Microsoft.VSTS.CMMI.RequiredAttendee7"
	FieldRequiredAttendee8      WorkItemField = "Microsoft.VSTS.CMMI.RequiredAttendee8"
	FieldRequirementType        WorkItemField = "Microsoft.VSTS.CMMI.RequirementType"
	FieldRequiresReview         WorkItemField = "Microsoft.VSTS.CMMI.RequiresReview"
	FieldRequiresTest           WorkItemField = "Microsoft.VSTS.CMMI.RequiresTest"
	FieldRootCause              WorkItemField = "Microsoft.VSTS.CMMI.RootCause"
	FieldSubjectMatterExpert1   WorkItemField = "Microsoft.VSTS.CMMI.SubjectMatterExpert1"
	FieldSubjectMatterExpert2   WorkItemField = "Microsoft.VSTS.CMMI.SubjectMatterExpert2"
	FieldSubjectMatterExpert3   WorkItemField = "Microsoft.VSTS.CMMI.SubjectMatterExpert3"
	FieldSymptom                WorkItemField = "Microsoft.VSTS.CMMI.Symptom"
	FieldTargetResolveDate      WorkItemField = "Microsoft.VSTS.CMMI.TargetResolveDate"
	FieldTaskType               WorkItemField = "Microsoft.VSTS.CMMI.TaskType"
	FieldUserAcceptanceTest     WorkItemField = "Microsoft.VSTS.CMMI.UserAcceptanceTest"
	FieldAcceptedBy             WorkItemField = "Microsoft.VSTS.CodeReview.AcceptedBy"
	FieldAcceptedDate           WorkItemField = "Microsoft.VSTS.CodeReview.AcceptedDate"
	FieldClosedStatus           WorkItemField = "Microsoft.VSTS.CodeReview.ClosedStatus"
	FieldClosedStatusCode       WorkItemField = "Microsoft.VSTS.CodeReview.ClosedStatusCode"
	FieldClosingComment         WorkItemField = "Microsoft.VSTS.CodeReview.ClosingComment"
	FieldAssociatedContext      WorkItemField = "Microsoft.VSTS.CodeReview.Context"
	FieldAssociatedContextCode  WorkItemField = "Microsoft.VSTS.CodeReview.ContextCode"
	FieldAssociatedContextOwner WorkItemField = "Microsoft.VSTS.CodeReview.ContextOwner"
	FieldAssociatedContextType  WorkItemField = "Microsoft.VSTS.CodeReview.ContextType"
	FieldAcceptanceCriteria     WorkItemField = "Microsoft.VSTS.Common.AcceptanceCriteria"
	FieldActivatedBy            WorkItemField = "Microsoft.VSTS.Common.ActivatedBy"
	FieldActivatedDate          WorkItemField = "Microsoft.VSTS.Common.ActivatedDate"
	// Type of work involved
	FieldActivity        WorkItemField = "Microsoft.VSTS.Common.Activity"
	FieldBacklogPriority WorkItemField = "Microsoft.VSTS.Common.BacklogPriority"
	// The business value for the customer when the epic is released
	FieldBusinessValue WorkItemField = "Microsoft.VSTS.Common.BusinessValue"
	FieldClosedBy      WorkItemField = "Microsoft.VSTS.Common.ClosedBy"
	FieldClosedDate    WorkItemField = "Microsoft.VSTS.Common.ClosedDate"
	// The discipline to which the bug belongs
	FieldDiscipline WorkItemField = "Microsoft.VSTS.Common.Discipline"
	// Used to highlight the shared step, e.g., to mark it as an issue
	FieldIssue WorkItemField = "Microsoft.VSTS.Common.Issue"
	// Business importance. 1=must fix; 4=unimportant.
	FieldPriority WorkItemField = "Microsoft.VSTS.Common.Priority"
	// Overall rating provided as part of feedback response
	FieldRating       WorkItemField = "Microsoft.VSTS.Common.Rating"
	FieldResolution   WorkItemField = "Microsoft.VSTS.Common.Resolution"
	FieldResolvedBy   WorkItemField = "Microsoft.VSTS.Common.ResolvedBy"
	FieldResolvedDate WorkItemField = "Microsoft.VSTS.Common.ResolvedDate"
	// The reason why the bug was resolved
	FieldResolvedReason WorkItemField = "Microsoft.VSTS.Common.ResolvedReason"
	FieldReviewedBy     WorkItemField = "Microsoft.VSTS.Common.ReviewedBy"
	// Uncertainty in epic
	FieldRisk WorkItemField = "Microsoft.VSTS.Common.Risk"
	// Assessment of the effect of the bug on the project
	FieldSeverity WorkItemField = "Microsoft.VSTS.Common.Severity"
	// Work first on items with lower-valued stack rank. Set in triage.
	FieldStackRank       WorkItemField = "Microsoft.VSTS.Common.StackRank"
	FieldStateChangeDate WorkItemField = "Microsoft.VSTS.Common.StateChangeDate"
	FieldStateCode       WorkItemField = "Microsoft.VSTS.Common.StateCode"
	// How does the business value decay over time. Higher values make the epic more time critical
	FieldTimeCriticality WorkItemField = "Microsoft.VSTS.Common.TimeCriticality"
	// Status of triaging the bug
	FieldTriage WorkItemField = "Microsoft.VSTS.Common.Triage"
	// change the architecture should be added as a User Story
	FieldValueArea WorkItemField = "Microsoft.VSTS.Common.ValueArea"
	// Instructions to launch the specified application
	FieldApplicationLaunchInstructions WorkItemField = "Microsoft.VSTS.Feedback.ApplicationLaunchInstructions"
	// The path to execute the application
	FieldApplicationStartInformation WorkItemField = "Microsoft.VSTS.Feedback.ApplicationStartInformation"
	// The type of application on which to give feedback
	FieldApplicationType WorkItemField = "Microsoft.VSTS.Feedback.ApplicationType"
	// The number of units of work that have been spent on this bug
	FieldCompletedWork WorkItemField = "Microsoft.VSTS.Scheduling.CompletedWork"
	// The date by which this issue needs to be closed
	FieldDueDate WorkItemField = "Microsoft.VSTS.Scheduling.DueDate"
	// The estimated effort to implemented the epic
	FieldEffort WorkItemField = "Microsoft.VSTS.Scheduling.Effort"
	// The date to finish the task
	FieldFinishDate WorkItemField = "Microsoft.VSTS.Scheduling.FinishDate"
	// Initial value for Remaining Work - set once, when work begins
	FieldOriginalEstimate WorkItemField = "Microsoft.VSTS.Scheduling.OriginalEstimate"
	// An estimate of the number of units of work remaining to complete this bug
	FieldRemainingWork WorkItemField = "Microsoft.VSTS.Scheduling.RemainingWork"
	// The size of work estimated for fixing the bug
	FieldSize WorkItemField = "Microsoft.VSTS.Scheduling.Size"
	// The date to start the task
	FieldStartDate WorkItemField = "Microsoft.VSTS.Scheduling.StartDate"
	// The size of work estimated for fixing the bug
	FieldStoryPoints WorkItemField = "Microsoft.VSTS.Scheduling.StoryPoints"
	// The target date for completing the epic
	FieldTargetDate WorkItemField = "Microsoft.VSTS.Scheduling.TargetDate"
	// The ID of the test that automates this test case
	FieldAutomatedTestID WorkItemField = "Microsoft.VSTS.TCM.AutomatedTestId"
	// The name of the test that automates this test case
	FieldAutomatedTestName WorkItemField = "Microsoft.VSTS.TCM.AutomatedTestName"
	// The assembly containing the test that automates this test case
	FieldAutomatedTestStorage WorkItemField = "Microsoft.VSTS.TCM.AutomatedTestStorage"
	// The type of the test that automates this test case
	FieldAutomatedTestType WorkItemField = "Microsoft.VSTS.TCM.AutomatedTestType"
	FieldAutomationStatus  WorkItemField = "Microsoft.VSTS.TCM.AutomationStatus"
	FieldLocalDataSource   WorkItemField = "Microsoft.VSTS.TCM.LocalDataSource"
	FieldParameters        WorkItemField = "Microsoft.VSTS.TCM.Parameters"
	FieldQueryText         WorkItemField = "Microsoft.VSTS.TCM.QueryText"
	// How to see the bug. End by contrasting expected with actual behavior.
	FieldReproSteps WorkItemField = "Microsoft.VSTS.TCM.ReproSteps"
	// Steps required to perform the test
	FieldSteps WorkItemField = "Microsoft.VSTS.TCM.Steps"
	// Test context, provided automatically by test infrastructure
	FieldSystemInfo WorkItemField = "Microsoft.VSTS.TCM.SystemInfo"
	// Captures the test suite audit trail.
	FieldTestSuiteAudit WorkItemField = "Microsoft.VSTS.TCM.TestSuiteAudit"
	// Specifies the category of the test suite.
	FieldTestSuiteType   WorkItemField = "Microsoft.VSTS.TCM.TestSuiteType"
	FieldTestSuiteTypeID WorkItemField = "Microsoft.VSTS.TCM.TestSuiteTypeId"
	FieldAreaID          WorkItemField = "System.AreaId"
	FieldAreaLevel1      WorkItemField = "System.AreaLevel1"
	FieldAreaLevel2      WorkItemField = "System.AreaLevel2"
	FieldAreaLevel3      WorkItemField = "System.AreaLevel3"
	FieldAreaLevel4      WorkItemField = "System.AreaLevel4"
	FieldAreaLevel5      WorkItemField = "System.AreaLevel5"
	FieldAreaLevel6      WorkItemField = "System.AreaLevel6"
	FieldAreaLevel7      WorkItemField = "System.AreaLevel7"
	// The area of the product with which this bug is associated
	FieldAreaPath WorkItemField = "System.AreaPath"
	// The person currently working on this bug
	FieldAssignedTo        WorkItemField = "System.AssignedTo"
	FieldAttachedFileCount WorkItemField = "System.AttachedFileCount"
	FieldAttachedFiles     WorkItemField = "System.AttachedFiles"
	FieldAuthorizedAs      WorkItemField = "System.AuthorizedAs"
	FieldAuthorizedDate    WorkItemField = "System.AuthorizedDate"
	FieldBisLinks          WorkItemField = "System.BISLinks"
	FieldBoardColumn       WorkItemField = "System.BoardColumn"
	FieldBoardColumnDone   WorkItemField = "System.BoardColumnDone"
	FieldBoardLane         WorkItemField = "System.BoardLane"
	FieldChangedBy         WorkItemField = "System.ChangedBy"
	FieldChangedDate       WorkItemField = "System.ChangedDate"
	FieldCommentCount      WorkItemField = "System.CommentCount"
	FieldCreatedBy         WorkItemField = "System.CreatedBy"
	FieldCreatedDate       WorkItemField = "System.CreatedDate"
	// Description or acceptance criteria for this epic to be considered complete
	FieldDescription       WorkItemField = "System.Description"
	FieldExternalLinkCount WorkItemField = "System.ExternalLinkCount"
	// Discussion thread plus automatic record of changes
	FieldHistory             WorkItemField = "System.History"
	FieldHyperlinkCount      WorkItemField = "System.HyperLinkCount"
	FieldID                  WorkItemField = "System.Id"
	FieldInAdminOnlyTreeFlag WorkItemField = "System.InAdminOnlyTreeFlag"
	FieldInDeletedTreeFlag   WorkItemField = "System.InDeletedTreeFlag"
	FieldIsDeleted           WorkItemField = "System.IsDeleted"
	FieldIterationID         WorkItemField = "System.IterationId"
	FieldIterationLevel1     WorkItemField = "System.IterationLevel1"
	FieldIterationLevel2     WorkItemField = "System.IterationLevel2"
	FieldIterationLevel3     WorkItemField = "System.IterationLevel3"
	FieldIterationLevel4     WorkItemField = "System.IterationLevel4"
	FieldIterationLevel5     WorkItemField = "System.IterationLevel5"
	FieldIterationLevel6     WorkItemField = "System.IterationLevel6"
	FieldIterationLevel7     WorkItemField = "System.IterationLevel7"
	// The iteration within which this bug will be fixed
	FieldIterationPath WorkItemField = "System.IterationPath"
	FieldLinkedFiles   WorkItemField = "System.LinkedFiles"
	FieldLinkType      WorkItemField = "System.Links.LinkType"
	FieldNodeName      WorkItemField = "System.NodeName"
	FieldNodeType      WorkItemField = "System.NodeType"
	FieldParent        WorkItemField = "System.Parent"
	FieldPersonID      WorkItemField = "System.PersonId"
	FieldProjectID     WorkItemField = "System.ProjectId"
	// The reason why the bug is in the current state
	FieldReason           WorkItemField = "System.Reason"
	FieldRelatedLinkCount WorkItemField = "System.RelatedLinkCount"
	FieldRelatedLinks     WorkItemField = "System.RelatedLinks"
	FieldRemoteLinkCount  WorkItemField = "System.RemoteLinkCount"
	FieldRev              WorkItemField = "System.Rev"
	FieldRevisedDate      WorkItemField = "System.RevisedDate"
	// Closed = fix verified.
	FieldState       WorkItemField = "System.State"
	FieldTags        WorkItemField = "System.Tags"
	FieldTeamProject WorkItemField = "System.TeamProject"
	FieldTfServer    WorkItemField = "System.TFServer"
	// Stories affected and how
	FieldTitle          WorkItemField = "System.Title"
	FieldWatermark      WorkItemField = "System.Watermark"
	FieldWorkItemForm   WorkItemField = "System.WorkItemForm"
	FieldWorkItemFormID WorkItemField = "System.WorkItemFormId"
	FieldWorkItemType   WorkItemField = "System.WorkItemType"
)
